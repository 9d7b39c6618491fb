package desktop

// FileFilter narrows a file dialog to matching names, e.g. "*.png;*.jpg".
type FileFilter struct {
	DisplayName string `json:"displayName"`
	Pattern     string `json:"pattern"`
}

// Dialogs shows native file and message dialogs.
type Dialogs struct {
	host *Host
}

func NewDialogs(host *Host) *Dialogs { return &Dialogs{host: host} }

// OpenFile asks the user for one file. An empty path means cancelled.
func (d *Dialogs) OpenFile(title string, filters []FileFilter) (string, error) {
	if d.host.app == nil {
		return "", ErrNoApp
	}
	dlg := d.host.app.Dialog.OpenFile().
		SetTitle(title).
		CanChooseFiles(true).
		CanChooseDirectories(false)
	for _, f := range filters {
		dlg.AddFilter(f.DisplayName, f.Pattern)
	}
	return dlg.PromptForSingleSelection()
}

// SaveFile asks the user where to save a file.
func (d *Dialogs) SaveFile(filename string, filters []FileFilter) (string, error) {
	if d.host.app == nil {
		return "", ErrNoApp
	}
	dlg := d.host.app.Dialog.SaveFile().SetFilename(filename)
	for _, f := range filters {
		dlg.AddFilter(f.DisplayName, f.Pattern)
	}
	return dlg.PromptForSingleSelection()
}

// Info shows an informational message box.
func (d *Dialogs) Info(title, message string) error {
	if d.host.app == nil {
		return ErrNoApp
	}
	d.host.app.Dialog.Info().SetTitle(title).SetMessage(message).Show()
	return nil
}

// Error shows an error message box.
func (d *Dialogs) Error(title, message string) error {
	if d.host.app == nil {
		return ErrNoApp
	}
	d.host.app.Dialog.Error().SetTitle(title).SetMessage(message).Show()
	return nil
}
