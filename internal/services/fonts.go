package services

type FontOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Category string `json:"category"`
	Preview  string `json:"preview"`
}

const fontPreview = "The quick brown fox"

// Fonts is the preview list offered by the editor. Storage accepts any name.
var Fonts = []FontOption{
	{Value: "Inter", Label: "Inter", Category: "Sans-serif", Preview: fontPreview},
	{Value: "DM Sans", Label: "DM Sans", Category: "Sans-serif", Preview: fontPreview},
	{Value: "Poppins", Label: "Poppins", Category: "Sans-serif", Preview: fontPreview},
	{Value: "Georgia", Label: "Georgia", Category: "Serif", Preview: fontPreview},
	{Value: "Playfair Display", Label: "Playfair Display", Category: "Serif", Preview: fontPreview},
	{Value: "Merriweather", Label: "Merriweather", Category: "Serif", Preview: fontPreview},
	{Value: "Dancing Script", Label: "Dancing Script", Category: "Script", Preview: fontPreview},
	{Value: "Caveat", Label: "Caveat", Category: "Handwritten", Preview: fontPreview},
	{Value: "Roboto Mono", Label: "Roboto Mono", Category: "Monospace", Preview: fontPreview},
	{Value: "Fira Code", Label: "Fira Code", Category: "Monospace", Preview: fontPreview},
}
