package menugroup

// MenuGroup is a named category menus are listed under.
type MenuGroup struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
