package bot

// Main menu button labels. The transport renders these as a reply keyboard;
// pressing one arrives back as plain message text.
const (
	btnProfile     = "🫖 My Profile"
	btnLoyalty     = "🎁 Loyalty"
	btnNotebook    = "📓 Tea Notebook"
	btnAddNote     = "➕ Add Note"
	btnMyCode      = "🔳 My Code"
	btnPromotions  = "📣 Promotions"
	btnRecordVisit = "✅ Record Visit (staff)"
)

// MainMenu returns the keyboard rows for the main menu. Staff get an extra
// row with the visit-recording button.
func MainMenu(isStaff bool) [][]string {
	rows := [][]string{
		{btnProfile, btnLoyalty},
		{btnNotebook, btnAddNote},
		{btnMyCode, btnPromotions},
	}
	if isStaff {
		rows = append(rows, []string{btnRecordVisit})
	}
	return rows
}
