package registry

import "fmt"

// Family - metric family
type Family int

const (
	// FamilyCPU - cpu usage and frequency
	FamilyCPU Family = iota
	// FamilyMemory - memory free/used/available/buffers
	FamilyMemory
	// FamilyDisk - per-device used space
	FamilyDisk
	// FamilyNetwork - per-interface rx/tx counters
	FamilyNetwork
)

// Families lists all metric families
var Families = []Family{FamilyCPU, FamilyMemory, FamilyDisk, FamilyNetwork}

var familyNames = map[Family]string{
	FamilyCPU:     "cpu",
	FamilyMemory:  "memory",
	FamilyDisk:    "disks",
	FamilyNetwork: "networks",
}

func (f Family) String() string {
	if name, ok := familyNames[f]; ok {
		return name
	}

	return fmt.Sprintf("Family(%d)", int(f))
}

// ParseFamily returns Family by its name
func ParseFamily(s string) (Family, error) {
	for f, name := range familyNames {
		if name == s {
			return f, nil
		}
	}

	return 0, fmt.Errorf("unknown metric family %q", s)
}
