package record

import (
	"fmt"
	"strings"
)

// Text flattens a record for pasting into a messaging app, one field per paragraph.
func Text(r *Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Machine Number: %v\n\n", r.MachineNumber)
	fmt.Fprintf(&b, "Timestamp: %v\n\n", r.Timestamp)

	for _, f := range r.Fields {
		fmt.Fprintf(&b, "%v:\n%v\n\n", f.Label, f.Value)
	}

	return b.String()
}
