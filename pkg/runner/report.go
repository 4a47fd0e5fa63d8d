package runner

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/raybrush/pkg/stage"
)

// Markdown renders the final state of a stage as a markdown report.
func Markdown(st stage.State) string {
	var b strings.Builder
	sum := st.Summary

	fmt.Fprintf(&b, "# Stage %s\n\n", st.ID)
	fmt.Fprintf(&b, "Scene **%s**, %s simulated.\n\n", st.Scene, st.Elapsed)

	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Events | %d |\n", sum.Events)
	fmt.Fprintf(&b, "| Grabs | %d |\n", sum.Grabs)
	if sum.GrabErrors > 0 {
		fmt.Fprintf(&b, "| Rejected grabs | %d |\n", sum.GrabErrors)
	}
	fmt.Fprintf(&b, "| Raises | %d |\n", sum.Raises)
	fmt.Fprintf(&b, "| Buries | %d |\n", sum.Buries)
	fmt.Fprintf(&b, "| Camera phases | %d |\n", sum.Phases)
	fmt.Fprintf(&b, "| Erases | %d |\n", sum.Erases)
	if sum.Misses > 0 {
		fmt.Fprintf(&b, "| Resolve errors | %d |\n", sum.Misses)
	}

	b.WriteString("\n## Trail\n\n")
	emission := "emitting"
	if !st.Trail.Emitting {
		emission = "stopped"
	}
	fmt.Fprintf(&b, "- Position: `%s`\n", formatVec(st.Trail.Position))
	fmt.Fprintf(&b, "- Emission: %s\n", emission)
	fmt.Fprintf(&b, "- Placements: %d\n", st.Trail.Points)

	b.WriteString("\n## Controller\n\n")
	if st.Controller.Grabbed && st.Controller.Agent != nil {
		fmt.Fprintf(&b, "- Held by `%s` (%s)\n", st.Controller.Agent.ID, st.Controller.Modality)
	} else {
		b.WriteString("- Idle\n")
	}
	fmt.Fprintf(&b, "- Camera: %s\n", st.Controller.Phase)

	if len(st.Owners) > 0 {
		b.WriteString("\n## Ownership\n\n")
		ids := make([]string, 0, len(st.Owners))
		for id := range st.Owners {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			fmt.Fprintf(&b, "- `%s`: %s\n", id, st.Owners[id])
		}
	}
	return b.String()
}
