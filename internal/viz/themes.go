package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for the TUI and its bar classes.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color

	Bar       lipgloss.Color
	Compare   lipgloss.Color
	Swap      lipgloss.Color
	Write     lipgloss.Color
	Sorted    lipgloss.Color
	Pivot     lipgloss.Color
	Key       lipgloss.Color
	Min       lipgloss.Color
	Merge     lipgloss.Color
	Left      lipgloss.Color
	Right     lipgloss.Color
	Partition lipgloss.Color
	Digit     lipgloss.Color
}

// bucketPalette colors radix buckets 0-9 in every theme.
var bucketPalette = [10]lipgloss.Color{
	"#ff6b6b", "#feca57", "#48dbfb", "#1dd1a1", "#5f27cd",
	"#ff9ff3", "#54a0ff", "#00d2d3", "#ff9f43", "#c8d6e5",
}

var (
	ThemeDefault = Theme{
		Name:      "default",
		Primary:   lipgloss.Color("#3498db"),
		Secondary: lipgloss.Color("#2c3e50"),
		Accent:    lipgloss.Color("#f1c40f"),
		Text:      lipgloss.Color("#ecf0f1"),
		Muted:     lipgloss.Color("#7f8c8d"),
		Error:     lipgloss.Color("#e74c3c"),
		Bar:       lipgloss.Color("#3498db"), // Blue
		Compare:   lipgloss.Color("#e74c3c"), // Red
		Swap:      lipgloss.Color("#f39c12"), // Orange
		Write:     lipgloss.Color("#f39c12"),
		Sorted:    lipgloss.Color("#2ecc71"), // Green
		Pivot:     lipgloss.Color("#9b59b6"), // Purple
		Key:       lipgloss.Color("#f1c40f"),
		Min:       lipgloss.Color("#f1c40f"),
		Merge:     lipgloss.Color("#e67e22"),
		Left:      lipgloss.Color("#1abc9c"),
		Right:     lipgloss.Color("#8e44ad"),
		Partition: lipgloss.Color("#5dade2"),
		Digit:     lipgloss.Color("#e74c3c"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#0077be"),
		Secondary: lipgloss.Color("#00a8cc"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Error:     lipgloss.Color("#ff4444"),
		Bar:       lipgloss.Color("#0077be"),
		Compare:   lipgloss.Color("#ffd700"),
		Swap:      lipgloss.Color("#ff8c42"),
		Write:     lipgloss.Color("#ff8c42"),
		Sorted:    lipgloss.Color("#00ff88"),
		Pivot:     lipgloss.Color("#ff4444"),
		Key:       lipgloss.Color("#ffcc00"),
		Min:       lipgloss.Color("#ffcc00"),
		Merge:     lipgloss.Color("#ff8c42"),
		Left:      lipgloss.Color("#00a8cc"),
		Right:     lipgloss.Color("#6c5ce7"),
		Partition: lipgloss.Color("#4488aa"),
		Digit:     lipgloss.Color("#ffd700"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"), // Green phosphor
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Error:     lipgloss.Color("#ff0000"),
		Bar:       lipgloss.Color("#00aa00"),
		Compare:   lipgloss.Color("#ffff00"),
		Swap:      lipgloss.Color("#ffffff"),
		Write:     lipgloss.Color("#ffffff"),
		Sorted:    lipgloss.Color("#88ff88"),
		Pivot:     lipgloss.Color("#ff8800"),
		Key:       lipgloss.Color("#ccff00"),
		Min:       lipgloss.Color("#ccff00"),
		Merge:     lipgloss.Color("#ffffff"),
		Left:      lipgloss.Color("#00cc66"),
		Right:     lipgloss.Color("#66cc00"),
		Partition: lipgloss.Color("#007700"),
		Digit:     lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Error:     lipgloss.Color("#ff0000"),
		Bar:       lipgloss.Color("#aaaaaa"),
		Compare:   lipgloss.Color("#0088ff"),
		Swap:      lipgloss.Color("#ffaa00"),
		Write:     lipgloss.Color("#ffaa00"),
		Sorted:    lipgloss.Color("#ffffff"),
		Pivot:     lipgloss.Color("#ff0000"),
		Key:       lipgloss.Color("#0088ff"),
		Min:       lipgloss.Color("#0088ff"),
		Merge:     lipgloss.Color("#ffaa00"),
		Left:      lipgloss.Color("#cccccc"),
		Right:     lipgloss.Color("#666666"),
		Partition: lipgloss.Color("#555555"),
		Digit:     lipgloss.Color("#0088ff"),
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Primary:   lipgloss.Color("#ff6b6b"), // Coral
		Secondary: lipgloss.Color("#feca57"),
		Accent:    lipgloss.Color("#ff9ff3"),
		Text:      lipgloss.Color("#fff5f5"),
		Muted:     lipgloss.Color("#8b6b8c"),
		Error:     lipgloss.Color("#ff4757"),
		Bar:       lipgloss.Color("#ff6b6b"),
		Compare:   lipgloss.Color("#feca57"),
		Swap:      lipgloss.Color("#ff9ff3"),
		Write:     lipgloss.Color("#ff9ff3"),
		Sorted:    lipgloss.Color("#5fd068"),
		Pivot:     lipgloss.Color("#a29bfe"),
		Key:       lipgloss.Color("#ffc048"),
		Min:       lipgloss.Color("#ffc048"),
		Merge:     lipgloss.Color("#ff9ff3"),
		Left:      lipgloss.Color("#fd79a8"),
		Right:     lipgloss.Color("#e17055"),
		Partition: lipgloss.Color("#8b6b8c"),
		Digit:     lipgloss.Color("#feca57"),
	}

	// CurrentTheme is the theme used by new renders.
	CurrentTheme = ThemeDefault

	Themes = []Theme{
		ThemeDefault,
		ThemeOcean,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to the default theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDefault
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return
		}
	}
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Color maps a bar class to the theme's color.
func (t Theme) Color(c Class, digit int) lipgloss.Color {
	switch c {
	case ClassSorted:
		return t.Sorted
	case ClassLeft:
		return t.Left
	case ClassRight:
		return t.Right
	case ClassPartition:
		return t.Partition
	case ClassBucket:
		return bucketPalette[digit%len(bucketPalette)]
	case ClassDigit:
		return t.Digit
	case ClassMerge:
		return t.Merge
	case ClassMin:
		return t.Min
	case ClassKey:
		return t.Key
	case ClassPivot:
		return t.Pivot
	case ClassCompare:
		return t.Compare
	case ClassSwap:
		return t.Swap
	case ClassWrite:
		return t.Write
	}
	return t.Bar
}
