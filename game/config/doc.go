// Package config provides the room catalog for the Escape Room Game.
//
// The config package handles:
//   - The built-in classic room
//   - Loading additional rooms from JSON or YAML files
//   - Room validation at load time
//   - Room discovery and listing
//
// Room Format:
//
// A room file defines an id, a name, a time limit in seconds, a list of
// puzzles and a list of items hidden at puzzles. Exactly one puzzle lists
// prerequisites in "requires"; it is the exit door and has no solution.
//
//	id: lab
//	name: Abandoned Lab
//	time_limit: 900
//	puzzles:
//	  - id: terminal
//	    description: A humming terminal asks for a passphrase.
//	    solution: entropy
//	    hint: Read the whiteboard.
//	  - id: exit
//	    description: A blast door.
//	    requires: [terminal]
//	items:
//	  - id: badge
//	    location: terminal
//	    description: An access badge.
//
// A missing id defaults to the file name without extension. A missing time
// limit defaults to engine.DefaultTimeLimit. A file whose id is "classic"
// replaces the built-in room.
//
// Usage:
//
//	manager, err := config.NewManager("rooms")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	room, err := manager.LoadRoom("lab")
//	defaultRoom := manager.GetDefault()
//	rooms := manager.ListRooms()
//
// Rooms are loaded once and never modified, so the Manager is safe for
// concurrent use without locking.
package config
