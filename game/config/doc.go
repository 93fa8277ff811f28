// Package config manages the starting layouts that 2048 sessions are created from.
//
// A layout is a named 4x4 starting grid, stored as a JSON or YAML file in the
// layouts directory:
//
//	{
//	  "name": "corner",
//	  "description": "A 128 waiting in the corner",
//	  "grid": [[0,0,0,0],[0,0,0,0],[0,0,0,0],[0,0,0,128]]
//	}
//
// An omitted grid means the empty board. Layouts are validated with
// engine.ValidateLayout when loaded and again before being saved; invalid
// files are skipped when listing.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	layout, err := manager.LoadLayout("corner")
//	defaultLayout := manager.GetDefault()
//	layouts, err := manager.ListLayouts()
//
// The default layout is "classic" when present, otherwise the first valid
// layout in the directory, otherwise a built-in empty board.
package config
