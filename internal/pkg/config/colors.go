package config

// ColorName identifies a palette color by its conventional name (e.g. "tab:blue").
type ColorName string

// Standard palette color names, assigned to figure axes by position.
const (
	ColorTabBlue  ColorName = "tab:blue"
	ColorTabRed   ColorName = "tab:red"
	ColorTabGreen ColorName = "tab:green"
)

// String returns the color name as a plain string.
func (c ColorName) String() string {
	return string(c)
}

// IsValid reports whether the color name is one of the known palette colors.
func (c ColorName) IsValid() bool {
	switch c {
	case ColorTabBlue, ColorTabRed, ColorTabGreen:
		return true
	default:
		return false
	}
}

// AllColorNames returns all known palette color names.
func AllColorNames() []ColorName {
	return []ColorName{
		ColorTabBlue,
		ColorTabRed,
		ColorTabGreen,
	}
}
