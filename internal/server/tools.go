package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func regionProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer", "description": "Left edge X coordinate (0-based)"},
			"y1": map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate (0-based)"},
			"x2": map[string]interface{}{"type": "integer", "description": "Right edge X coordinate (exclusive)"},
			"y2": map[string]interface{}{"type": "integer", "description": "Bottom edge Y coordinate (exclusive)"},
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}
}

func grayModeProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"max", "min", "luma", "lightness"},
		"description": "How colour is reduced to gray. 'max' (default) ignores coloured paper and keeps dark ink; 'min' keeps coloured pen strokes dark; 'luma' and 'lightness' are perceptual.",
	}
}

// checkboxSchema is the input schema shared by the single-region tools, with
// extra properties merged in.
func checkboxSchema(extra map[string]interface{}, required ...string) map[string]interface{} {
	props := map[string]interface{}{
		"path":      pathProperty(),
		"region":    regionProperty("Rectangle holding one checkbox with a small margin. Defaults to the whole image."),
		"gray_mode": grayModeProperty(),
	}
	for k, v := range extra {
		props[k] = v
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   append([]string{"path"}, required...),
	}
}

func detectionProperties() map[string]interface{} {
	return map[string]interface{}{
		"path":      pathProperty(),
		"region":    regionProperty("Part of the page to search. Defaults to the whole page."),
		"gray_mode": grayModeProperty(),
		"min_size": map[string]interface{}{
			"type":        "integer",
			"description": "Smallest box side in pixels. Default 8",
			"default":     8,
		},
		"max_size": map[string]interface{}{
			"type":        "integer",
			"description": "Largest box side in pixels. Default 200",
			"default":     200,
		},
		"min_squareness": map[string]interface{}{
			"type":        "number",
			"description": "Lowest accepted ratio of the shorter to the longer side. Default 0.75",
			"default":     0.75,
		},
		"min_coverage": map[string]interface{}{
			"type":        "number",
			"description": "Fraction of each side that must be inked. Default 0.8",
			"default":     0.8,
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	readProps := detectionProperties()
	readProps["pad"] = map[string]interface{}{
		"type":        "integer",
		"description": "Margin added around each detected box before classification. Default 2",
		"default":     2,
	}
	readProps["include_analysis"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Include projections, peaks and fill ratios for every box",
		"default":     false,
	}
	readProps["read_labels"] = map[string]interface{}{
		"type":        "boolean",
		"description": "OCR the label printed to the right of each box",
		"default":     false,
	}
	readProps["label_gap"] = map[string]interface{}{
		"type":        "integer",
		"description": "Pixels between a box and its label. Default 4",
		"default":     4,
	}
	readProps["label_width"] = map[string]interface{}{
		"type":        "integer",
		"description": "Width of the label strip in pixels. Default 240",
		"default":     240,
	}
	readProps["language"] = map[string]interface{}{
		"type":        "string",
		"description": "Tesseract language code for labels. Default 'eng'",
		"default":     "eng",
	}
	readProps["annotate_scale"] = map[string]interface{}{
		"type":        "number",
		"description": "When set, include the page as base64 PNG at this scale with every box outlined and numbered",
	}
	readProps["checked_color"] = map[string]interface{}{
		"type":        "string",
		"description": "Outline colour of checked boxes as hex. Default '#00A000'",
		"default":     "#00A000",
	}
	readProps["unchecked_color"] = map[string]interface{}{
		"type":        "string",
		"description": "Outline colour of unchecked boxes as hex. Default '#D00000'",
		"default":     "#D00000",
	}
	readProps["ocr_variables"] = map[string]interface{}{
		"type":        "object",
		"description": "Tesseract variables: tessedit_char_whitelist, tessedit_char_blacklist, preserve_interword_spaces, user_defined_dpi",
		"additionalProperties": map[string]interface{}{
			"type": "string",
		},
	}

	return []Tool{
		// Image cache
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and colour model. The image stays cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_unload",
			Description: "Drop an image from the cache, or every image when no path is given. Use after a file changed on disk.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
			},
		},

		// Single checkbox regions
		{
			Name:        "checkbox_classify",
			Description: "Decide whether the checkbox in a region is ticked. Returns checked and a confidence; 1.0 means a fill ratio was decisive.",
			InputSchema: checkboxSchema(nil),
		},
		{
			Name:        "checkbox_analyze",
			Description: "Classify a checkbox and return the measurements behind the verdict: dark cutoff, projections, border peaks, outer and inner boxes, fill ratios and which signal decided.",
			InputSchema: checkboxSchema(map[string]interface{}{
				"preview_scale": map[string]interface{}{
					"type":        "number",
					"description": "When set, include the gray region as base64 PNG at this scale (e.g., 4.0 to enlarge a small box) with the outer box in blue and the inner box in orange",
				},
			}),
		},
		{
			Name:        "checkbox_projection",
			Description: "Count the dark pixels of each row (horizontal) and each column (vertical) of a region.",
			InputSchema: checkboxSchema(nil),
		},
		{
			Name:        "checkbox_peaks",
			Description: "Locate the border lines of a checkbox frame as peaks of the row and column projections.",
			InputSchema: checkboxSchema(map[string]interface{}{
				"window": map[string]interface{}{
					"type":        "integer",
					"description": "Neighbourhood half-width and minimum distance between peaks. Default 15",
				},
				"prominence": map[string]interface{}{
					"type":        "integer",
					"description": "Minimum rise of a peak above both neighbourhoods. Default 3",
				},
			}),
		},
		{
			Name:        "checkbox_fill",
			Description: "Count the dark pixels inside a box of the region and return the count and ratio.",
			InputSchema: checkboxSchema(map[string]interface{}{
				"box": map[string]interface{}{
					"type":        "object",
					"description": "Box in region coordinates",
					"properties": map[string]interface{}{
						"x":      map[string]interface{}{"type": "integer"},
						"y":      map[string]interface{}{"type": "integer"},
						"width":  map[string]interface{}{"type": "integer"},
						"height": map[string]interface{}{"type": "integer"},
					},
					"required": []string{"x", "y", "width", "height"},
				},
			}, "box"),
		},
		{
			Name:        "checkbox_fill_ratios",
			Description: "Return [outer, inner] fill ratios of the checkbox frame, or a single ratio when no frame was found.",
			InputSchema: checkboxSchema(nil),
		},

		// Whole forms
		{
			Name:        "form_detect_checkboxes",
			Description: "Find square checkbox frames on a form page. Returns their bounds in reading order.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": detectionProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "form_read_checkboxes",
			Description: "Find every checkbox on a form page, classify them in parallel and optionally read the label next to each. Returns the boxes in reading order with checked, confidence and label.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": readProps,
				"required":   []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
