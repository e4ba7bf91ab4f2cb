// Package workflow implements the interactive receipt workflow: import a photo,
// correct its OCR lines, edit the converted draft and commit it.
package workflow

// State is the screen the workflow is on.
type State int

// Workflow states.
const (
	StateHome State = iota
	StateImport
	StateOcr
	StateConvertBon
	StateCategory
	StateEditName
	StateEditPrice
	StateEditCategory
	StateEditBonPrice
	StateBlacklist
)

var stateNames = map[State]string{
	StateHome:         "home",
	StateImport:       "import",
	StateOcr:          "ocr",
	StateConvertBon:   "convert",
	StateCategory:     "category",
	StateEditName:     "edit-name",
	StateEditPrice:    "edit-price",
	StateEditCategory: "edit-category",
	StateEditBonPrice: "edit-bon-price",
	StateBlacklist:    "blacklist",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsEdit reports whether the state collects text in the edit buffer.
func (s State) IsEdit() bool {
	switch s {
	case StateEditName, StateEditPrice, StateEditCategory, StateEditBonPrice, StateBlacklist:
		return true
	default:
		return false
	}
}

// Trigger is a user intent fed into the workflow.
type Trigger int

// Workflow triggers.
const (
	SelectImportTarget Trigger = iota
	ConfirmFile
	ConvertToDraft
	MarkAsDate
	MarkAsSum
	DeleteLine
	RequestBlacklist
	CommitBlacklistEntry
	RequestEditName
	RequestEditPrice
	RequestEditBonPrice
	RequestCategoryPick
	RequestNewCategory
	CommitEdit
	PickCategory
	DeleteItem
	CommitBon
	HideReceipt
	Cancel
	Back
	NextItem
	PreviousItem
)

var triggerNames = [...]string{
	SelectImportTarget:   "select-import-target",
	ConfirmFile:          "confirm-file",
	ConvertToDraft:       "convert-to-draft",
	MarkAsDate:           "mark-as-date",
	MarkAsSum:            "mark-as-sum",
	DeleteLine:           "delete-line",
	RequestBlacklist:     "request-blacklist",
	CommitBlacklistEntry: "commit-blacklist-entry",
	RequestEditName:      "request-edit-name",
	RequestEditPrice:     "request-edit-price",
	RequestEditBonPrice:  "request-edit-bon-price",
	RequestCategoryPick:  "request-category-pick",
	RequestNewCategory:   "request-new-category",
	CommitEdit:           "commit-edit",
	PickCategory:         "pick-category",
	DeleteItem:           "delete-item",
	CommitBon:            "commit-bon",
	HideReceipt:          "hide-receipt",
	Cancel:               "cancel",
	Back:                 "back",
	NextItem:             "next-item",
	PreviousItem:         "previous-item",
}

func (t Trigger) String() string {
	if t >= 0 && int(t) < len(triggerNames) {
		return triggerNames[t]
	}
	return "unknown"
}
