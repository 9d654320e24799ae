package server

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetToolDefinitions(t *testing.T) {
	var names []string
	for _, tool := range GetToolDefinitions() {
		names = append(names, tool.Name)
	}

	want := []string{
		"image_load",
		"image_unload",
		"checkbox_classify",
		"checkbox_analyze",
		"checkbox_projection",
		"checkbox_peaks",
		"checkbox_fill",
		"checkbox_fill_ratios",
		"form_detect_checkboxes",
		"form_read_checkboxes",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("tool names mismatch (-want +got):\n%s", diff)
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			assert.NotEmpty(t, tool.Description)
			require.NotNil(t, tool.InputSchema)
			assert.Equal(t, "object", tool.InputSchema["type"])

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			require.True(t, ok, "properties should be a map")
			assert.Contains(t, props, "path")
		})
	}
}

func TestToolDefinitions_RequiredPath(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name == "image_unload" {
			continue
		}
		t.Run(tool.Name, func(t *testing.T) {
			required, ok := tool.InputSchema["required"].([]string)
			require.True(t, ok, "required should be []string")
			assert.Contains(t, required, "path")
		})
	}
}

func TestToolDefinitions_CheckboxFillRequiresBox(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name != "checkbox_fill" {
			continue
		}
		assert.Equal(t, []string{"path", "box"}, tool.InputSchema["required"])
		return
	}
	t.Fatal("checkbox_fill not defined")
}

func TestToolDefinitions_Serializable(t *testing.T) {
	data, err := json.Marshal(GetToolDefinitions())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"inputSchema"`)
	assert.Contains(t, string(data), `"ocr_variables"`)
}
