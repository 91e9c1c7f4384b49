package scheduler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arnavshah/room-scheduler-api/pkg/models"
)

// EquipmentPolicy decides how a session's required equipment is matched
// against the equipment a room offers.
type EquipmentPolicy string

const (
	// EquipmentIntersect accepts a room sharing at least one item with the
	// session. A session that needs nothing matches any room.
	EquipmentIntersect EquipmentPolicy = "intersect"
	// EquipmentSubset requires every needed item to be offered.
	EquipmentSubset EquipmentPolicy = "subset"
	// EquipmentExact requires identical sets.
	EquipmentExact EquipmentPolicy = "exact"
)

var ErrUnknownPolicy = errors.New("unknown equipment policy")

// ParseEquipmentPolicy maps a config or request value to a policy. An empty
// value selects EquipmentIntersect.
func ParseEquipmentPolicy(s string) (EquipmentPolicy, error) {
	switch p := EquipmentPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return EquipmentIntersect, nil
	case EquipmentIntersect, EquipmentSubset, EquipmentExact:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Satisfied applies the policy to two canonical (sorted, deduplicated) sets.
func (p EquipmentPolicy) Satisfied(required, offered []string) bool {
	switch p {
	case EquipmentExact:
		if len(required) != len(offered) {
			return false
		}
		for i := range required {
			if required[i] != offered[i] {
				return false
			}
		}
		return true
	case EquipmentSubset:
		i, j := 0, 0
		for i < len(required) && j < len(offered) {
			switch {
			case required[i] == offered[j]:
				i++
				j++
			case required[i] > offered[j]:
				j++
			default:
				return false
			}
		}
		return i == len(required)
	default:
		if len(required) == 0 {
			return true
		}
		return intersects(required, offered)
	}
}

// Compatible reports whether a session may ever be placed in a room,
// regardless of timing. A room still in the pool has no profile yet, so
// only its capacity is checked.
func Compatible(session *models.Session, room *models.Room, policy EquipmentPolicy) bool {
	if session.EstimatedCapacity > room.MaxCapacity {
		return false
	}
	if !room.Active {
		return true
	}
	if session.Format != room.Format {
		return false
	}
	return policy.Satisfied(session.Equipment, room.Equipment)
}

// intersects reports whether two sorted sets share an element.
func intersects(a, b []string) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			return true
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return false
}
