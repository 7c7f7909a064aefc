package external

// SpellData is a spell as the catalog describes it
type SpellData struct {
	ID            string
	Name          string
	Level         int
	School        string
	Ritual        bool
	Concentration bool
	// Classes holds the normalized ids of classes with the spell on their list
	Classes []string
}

// SpellRef is an entry of a class spell list
type SpellRef struct {
	ID    string
	Name  string
	Level int
}

// ListSpellsInput filters a spell list by class and spell level
type ListSpellsInput struct {
	ClassID string
	Level   int
}
