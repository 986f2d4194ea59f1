package render

// Base palette (Tokyo Night)
var (
	DefaultBg   = RGB{26, 27, 38}
	DefaultFg   = RGB{192, 202, 245}
	StatusFg    = RGB{224, 175, 104}
	OverlayFg   = RGB{122, 162, 247}
	ContentFg   = RGB{158, 206, 106}
	ComponentFg = RGB{86, 95, 137}
)
