package workbook

import "fmt"

// MemorySheet is a sheet captured by MemorySink.
type MemorySheet struct {
	Name        string
	Header      []string
	HeaderStyle RowStyle
	Rows        [][]string
}

// MemorySink keeps the workbook in memory. It backs --dry-run.
type MemorySink struct {
	Sheets []*MemorySheet

	// FinalizedPath is the path passed to Finalize, empty until then.
	FinalizedPath string
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (m *MemorySink) CreateSheet(name string) (SheetHandle, error) {
	for _, s := range m.Sheets {
		if s.Name == name {
			return SheetHandle{}, fmt.Errorf("sheet %q already exists", name)
		}
	}
	m.Sheets = append(m.Sheets, &MemorySheet{Name: name})
	return SheetHandle{Name: name, Index: len(m.Sheets) - 1}, nil
}

func (m *MemorySink) WriteHeaderRow(h SheetHandle, fields []string, style RowStyle) error {
	s, err := m.sheet(h)
	if err != nil {
		return err
	}
	s.Header = append([]string(nil), fields...)
	s.HeaderStyle = style
	return nil
}

func (m *MemorySink) WriteRows(h SheetHandle, rows [][]string) error {
	s, err := m.sheet(h)
	if err != nil {
		return err
	}
	for _, row := range rows {
		s.Rows = append(s.Rows, append([]string(nil), row...))
	}
	return nil
}

func (m *MemorySink) Finalize(path string) error {
	m.FinalizedPath = path
	return nil
}

func (m *MemorySink) Close() error {
	return nil
}

// SheetNames returns the sheet names in creation order.
func (m *MemorySink) SheetNames() []string {
	names := make([]string, len(m.Sheets))
	for i, s := range m.Sheets {
		names[i] = s.Name
	}
	return names
}

// Sheet returns the sheet with the given name, or nil.
func (m *MemorySink) Sheet(name string) *MemorySheet {
	for _, s := range m.Sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func (m *MemorySink) sheet(h SheetHandle) (*MemorySheet, error) {
	if h.Index < 0 || h.Index >= len(m.Sheets) || m.Sheets[h.Index].Name != h.Name {
		return nil, fmt.Errorf("unknown sheet %q", h.Name)
	}
	return m.Sheets[h.Index], nil
}
