package core

// Color represents a foreground color for a screen cell.
// The terminal renderer maps each value to an ANSI 256-color code.
type Color uint8

// Palette used by the runner renderer.
const (
	ColorDefault     Color = iota // terminal foreground
	ColorRoad                     // asphalt and lane markings
	ColorNeonCyan                 // right-hand pole lights, road edges
	ColorNeonMagenta              // left-hand pole lights
	ColorPlayer                   // the player's car
	ColorEnemy                    // obstacle cars
	ColorCity                     // skyline blocks
	ColorRain                     // falling particles
	ColorHUD                      // score/speed/level text
	ColorBanner                   // level-up banner
	ColorAlert                    // game-over box
)
