package role

// Can reports whether r grants action on resource. A nil role grants
// nothing. The admin role is granted everything regardless of its
// permission entries.
func Can(r *Role, resource, action string) bool {
	if r == nil {
		return false
	}
	if r.Name == RoleAdmin {
		return true
	}
	for _, p := range r.Permissions {
		if p.Resource != resource {
			continue
		}
		for _, a := range p.Actions {
			if a == action {
				return true
			}
		}
		return false
	}
	return false
}
