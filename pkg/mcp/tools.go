package mcp

import "github.com/mark3labs/mcp-go/mcp"

func extractKitTool() mcp.Tool {
	return mcp.NewTool("extract_kit",
		mcp.WithDescription("Render a public web page in light and dark mode and infer its design kit: palette, typography, UI tokens and component styles, with WCAG contrast scores."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Page URL. A missing scheme defaults to https://"),
		),
		mcp.WithString("mode",
			mcp.Description("Variant returned as \"kit\""),
			mcp.Enum("light", "dark"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

func assembleKitTool() mcp.Tool {
	return mcp.NewTool("assemble_kit",
		mcp.WithDescription("Assemble a design kit from a captured page render without opening a browser. Accepts a bare raw extraction or a {\"light\": ..., \"dark\": ...} pair."),
		mcp.WithString("raw",
			mcp.Required(),
			mcp.Description("Raw extraction JSON"),
		),
		mcp.WithString("mode",
			mcp.Description("Variant returned as \"kit\""),
			mcp.Enum("light", "dark"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
}

func checkContrastTool() mcp.Tool {
	return mcp.NewTool("check_contrast",
		mcp.WithDescription("Score WCAG contrast. Pass foreground and background colors for a single pair, or a kit JSON to score its standard role pairs."),
		mcp.WithString("foreground",
			mcp.Description("Text color: #RGB, #RRGGBB or rgb()/rgba()"),
		),
		mcp.WithString("background",
			mcp.Description("Background color: #RGB, #RRGGBB or rgb()/rgba()"),
		),
		mcp.WithBoolean("large",
			mcp.Description("Use large-text thresholds (AA 3.0, AAA 4.5)"),
		),
		mcp.WithString("kit",
			mcp.Description("Kit JSON, or a whole extract_kit/assemble_kit result"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
}

func exportKitTool() mcp.Tool {
	return mcp.NewTool("export_kit",
		mcp.WithDescription("Export a kit as CSS custom properties, a Tailwind config snippet, kit JSON or a download bundle. Give either a url to extract or a raw capture to assemble."),
		mcp.WithString("url",
			mcp.Description("Page URL to extract"),
		),
		mcp.WithString("raw",
			mcp.Description("Raw extraction JSON to assemble instead of extracting"),
		),
		mcp.WithString("format",
			mcp.Description("Output format (default json)"),
			mcp.Enum("json", "css", "tailwind", "bundle", "colors"),
		),
		mcp.WithString("mode",
			mcp.Description("Variant to export"),
			mcp.Enum("light", "dark"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
