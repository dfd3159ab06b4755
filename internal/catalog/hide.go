package catalog

// HideStar suppresses a catalog number from drawing. Only the identifier
// layout has numbers to match, so on other layouts it has no visible effect.
func (a *ZoneArray) HideStar(hip int) {
	a.hidden[hip] = struct{}{}
}

// ShowStar removes a catalog number from the hide set.
func (a *ZoneArray) ShowStar(hip int) {
	delete(a.hidden, hip)
}

// ShowAllStar clears the hide set.
func (a *ZoneArray) ShowAllStar() {
	clear(a.hidden)
}

// IsHidden reports whether hip is in the hide set.
func (a *ZoneArray) IsHidden(hip int) bool {
	_, ok := a.hidden[hip]
	return ok
}

// HiddenCount returns the size of the hide set.
func (a *ZoneArray) HiddenCount() int {
	return len(a.hidden)
}
