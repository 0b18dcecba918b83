package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CompactTheme is a dark theme with reduced padding
type CompactTheme struct{}

func NewCompactTheme() fyne.Theme {
	return &CompactTheme{}
}

// Color returns theme colors
func (t *CompactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameSuccess:
		return color.RGBA{R: 166, G: 227, B: 161, A: 255}
	case theme.ColorNameError:
		return color.RGBA{R: 243, G: 139, B: 168, A: 255}
	case theme.ColorNameWarning:
		return color.RGBA{R: 249, G: 226, B: 175, A: 255}
	case theme.ColorNamePrimary:
		return color.RGBA{R: 137, G: 180, B: 250, A: 255}
	case theme.ColorNameHover:
		return color.RGBA{R: 180, G: 190, B: 254, A: 64}
	case theme.ColorNameBackground:
		return color.RGBA{R: 30, G: 30, B: 46, A: 255}
	case theme.ColorNameInputBackground, theme.ColorNameButton:
		return color.RGBA{R: 49, G: 50, B: 68, A: 255}
	case theme.ColorNameDisabledButton:
		return color.RGBA{R: 69, G: 71, B: 90, A: 255}
	case theme.ColorNameForeground:
		return color.RGBA{R: 205, G: 214, B: 244, A: 255}
	case theme.ColorNameDisabled, theme.ColorNamePlaceHolder:
		return color.RGBA{R: 108, G: 112, B: 134, A: 255}
	}

	return theme.DefaultTheme().Color(name, theme.VariantDark)
}

func (t *CompactTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *CompactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameLineSpacing:
		return 2
	case theme.SizeNameText:
		return 13
	case theme.SizeNameHeadingText:
		return 18
	case theme.SizeNameSubHeadingText:
		return 14
	case theme.SizeNameInputRadius:
		return 6
	case theme.SizeNameSelectionRadius:
		return 4
	}

	return theme.DefaultTheme().Size(name)
}
