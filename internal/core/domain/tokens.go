package domain

// Token is one design value found in a document.
type Token struct {
	// Name follows the category prefix of the CSS custom property:
	// "primary" in --color-primary, "1" in --spacing-1.
	Name string `json:"name" yaml:"name"`

	// Value is the normalised value: "#6ec1e4", "Roboto", "20px".
	Value string `json:"value" yaml:"value"`

	// Uses counts occurrences in the document. Kit globals that no
	// element refers to directly have zero uses.
	Uses int `json:"uses" yaml:"uses"`
}

// DesignTokens is the palette, type scale and spacing of a document.
type DesignTokens struct {
	Colors  []Token `json:"colors" yaml:"colors"`
	Fonts   []Token `json:"fonts" yaml:"fonts"`
	Spacing []Token `json:"spacing" yaml:"spacing"`
}

// Empty reports whether no tokens were found.
func (t *DesignTokens) Empty() bool {
	return t == nil || len(t.Colors)+len(t.Fonts)+len(t.Spacing) == 0
}
