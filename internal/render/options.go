package render

import "github.com/alnah/go-mjml/internal/assets"

// Default option values.
const (
	DefaultBreakpoint = "480px"
	DefaultLanguage   = "und"
	DefaultDirection  = "auto"
	DefaultBodyWidth  = "600px"
)

// Font is a web font that can be imported when the document uses it.
type Font struct {
	Name string `yaml:"name"`
	Href string `yaml:"href"`
}

// DefaultFonts returns the fonts known without any mj-font declaration.
func DefaultFonts() []Font {
	return []Font{
		{Name: "Open Sans", Href: "https://fonts.googleapis.com/css?family=Open+Sans:300,400,500,700"},
		{Name: "Droid Sans", Href: "https://fonts.googleapis.com/css?family=Droid+Sans:300,400,500,700"},
		{Name: "Lato", Href: "https://fonts.googleapis.com/css?family=Lato:300,400,500,700"},
		{Name: "Roboto", Href: "https://fonts.googleapis.com/css?family=Roboto:300,400,500,700"},
		{Name: "Ubuntu", Href: "https://fonts.googleapis.com/css?family=Ubuntu:300,400,500,700"},
	}
}

// Options controls a render pass. The zero value is usable; DefaultOptions
// returns the settings conversions use unless told otherwise.
type Options struct {
	// Breakpoint is the viewport width above which columns sit side by side.
	// An mj-breakpoint in the document overrides it.
	Breakpoint string

	// KeepComments emits source comments into the output.
	KeepComments bool

	// Fonts is the initial font registry. mj-font declarations add to it.
	Fonts []Font

	// Language and Direction fill <html lang dir> when the mjml root
	// does not set them.
	Language  string
	Direction string

	// Assets supplies the skeleton stylesheets. Nil uses the embedded ones.
	Assets assets.AssetLoader
}

// DefaultOptions returns the default render options.
func DefaultOptions() Options {
	return Options{
		Breakpoint:   DefaultBreakpoint,
		KeepComments: true,
		Fonts:        DefaultFonts(),
		Language:     DefaultLanguage,
		Direction:    DefaultDirection,
	}
}
