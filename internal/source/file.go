package source

// File owns one document's text, version, and derived LineTable. It does
// not own parse/analysis results — those live in the workspace's
// AnalysisResult so that File itself stays a small, cheaply-replaced value
// whenever didChange fires.
type File struct {
	URI     string
	Path    string
	Text    string
	Version int64
	Lines   *LineTable
}

// NewFile builds a File and its LineTable from text.
func NewFile(uri, path, text string, version int64) *File {
	return &File{
		URI:     uri,
		Path:    path,
		Text:    text,
		Version: version,
		Lines:   Build(text),
	}
}
