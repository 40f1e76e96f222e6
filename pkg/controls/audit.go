package controls

// Audit returns the required controls whose id is not among filledIDs, in
// template order. The result is advisory; submissions go ahead regardless.
func Audit(all []Control, filledIDs []string) []Control {
	filled := make(map[string]struct{}, len(filledIDs))
	for _, id := range filledIDs {
		filled[id] = struct{}{}
	}

	var missing []Control
	for _, c := range all {
		if !c.Required() {
			continue
		}
		if _, ok := filled[c.ID]; ok {
			continue
		}
		missing = append(missing, c)
	}
	return missing
}
