// Package toggle finds the fewest button presses that switch an all-off
// light panel to a target pattern, where each button flips a fixed set of
// lights.
package toggle

type state struct {
	lights  uint64
	presses int
}

// FewestPresses runs a breadth-first search over panel states starting
// from all lights off. Pressing a button XORs its mask into the state. It
// returns false when target cannot be reached.
func FewestPresses(target uint64, buttons []uint64) (int, bool) {
	visited := map[uint64]bool{0: true}
	queue := []state{{}}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if s.lights == target {
			return s.presses, true
		}
		for _, b := range buttons {
			next := s.lights ^ b
			if visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, state{lights: next, presses: s.presses + 1})
		}
	}
	return 0, false
}
