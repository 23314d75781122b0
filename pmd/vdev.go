package pmd

import (
	"strconv"
	"strings"

	"github.com/nvpkt/e2d2go/driver"
	"github.com/nvpkt/e2d2go/e2derr"
)

// parseVdev parses a vdev descriptor of the form "bess:<name>" or
// "ovs:<id>", matching the reference implementation's grammar
// exactly: the string must split into exactly two colon-separated
// parts, and the first part must be the literal "bess" or "ovs".
// Anything else is BadVdev.
func parseVdev(s string) (kind driver.PortKind, name string, id int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, "", 0, e2derr.New("pmd.OpenVdev", e2derr.BadVdev, "vdev descriptor must have exactly two colon-separated parts: "+s)
	}

	switch parts[0] {
	case "bess":
		return driver.KindBESSRing, parts[1], 0, nil
	case "ovs":
		id, convErr := strconv.Atoi(parts[1])
		if convErr != nil || id < 0 {
			return 0, "", 0, e2derr.New("pmd.OpenVdev", e2derr.BadVdev, "ovs vdev id must be a non-negative integer: "+s)
		}
		return driver.KindOVSRing, "", id, nil
	default:
		return 0, "", 0, e2derr.New("pmd.OpenVdev", e2derr.BadVdev, "unrecognized vdev kind: "+parts[0])
	}
}
