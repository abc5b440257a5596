// Package locationcode derives the 6-digit allocation code from a bed's
// resolved position in the building/floor/room/bed hierarchy.
package locationcode

import "fmt"

// Location is a bed's fully resolved position. BuildingSeq is the 1-based
// position of the bed's building among active buildings ordered by creation.
type Location struct {
	BuildingSeq int
	FloorNumber int
	RoomNumber  int
	BedNumber   int
}

// ErrOutOfRange is returned when a component does not fit its digit slot.
// The code format reserves one digit for the building and floor and two
// digits each for room and bed, so the scheme supports at most 9 active
// buildings, floors 0-9 and room/bed numbers 0-99.
type ErrOutOfRange struct {
	Field string
	Value int
}

func (e *ErrOutOfRange) Error() string {
	return fmt.Sprintf("location code: %s %d does not fit the code format", e.Field, e.Value)
}

// Derive produces the code "BFRRBB": building sequence digit, floor digit,
// zero-padded room number, zero-padded bed number. Deriving the same
// location always yields the same string.
func Derive(loc Location) (string, error) {
	if loc.BuildingSeq < 1 || loc.BuildingSeq > 9 {
		return "", &ErrOutOfRange{Field: "building sequence", Value: loc.BuildingSeq}
	}
	if loc.FloorNumber < 0 || loc.FloorNumber > 9 {
		return "", &ErrOutOfRange{Field: "floor number", Value: loc.FloorNumber}
	}
	if loc.RoomNumber < 0 || loc.RoomNumber > 99 {
		return "", &ErrOutOfRange{Field: "room number", Value: loc.RoomNumber}
	}
	if loc.BedNumber < 0 || loc.BedNumber > 99 {
		return "", &ErrOutOfRange{Field: "bed number", Value: loc.BedNumber}
	}

	return fmt.Sprintf("%d%d%02d%02d", loc.BuildingSeq, loc.FloorNumber, loc.RoomNumber, loc.BedNumber), nil
}
