package ui

import "image/color"

var (
	ColBackground = color.RGBA{0, 0, 0, 255}
	ColText       = color.RGBA{255, 255, 255, 255}
	ColDim        = color.RGBA{120, 120, 140, 255}
	ColHighlight  = color.RGBA{255, 255, 0, 255}
	ColFlash      = color.RGBA{255, 255, 255, 255}

	ColMenuBG     = color.RGBA{253, 232, 113, 255}
	ColMenuItem   = color.RGBA{30, 30, 30, 255}
	ColPanel      = color.RGBA{20, 20, 30, 220}
	ColPanelEdge  = color.RGBA{240, 240, 240, 255}
	ColToggleOn   = color.RGBA{40, 200, 40, 255}
	ColToggleOff  = color.RGBA{200, 40, 40, 255}
	ColBeatMarker = color.RGBA{0, 200, 255, 255}
)
