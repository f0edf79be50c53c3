package machine

// Memory is a sparse address space: addresses are flat non-negative
// integers, unread addresses hold the zero Cell, and writes extend the
// mapping. Code and data addresses come from one flat address space, but
// only data cells are stored here; compiled instructions are held by the
// Program type (internal/program), separately from data.
type Memory struct {
	cells map[uint64]Cell

	AccessCount uint64
	ReadCount   uint64
	WriteCount  uint64
}

// NewMemory creates an empty Memory.
func NewMemory() *Memory {
	return &Memory{cells: make(map[uint64]Cell)}
}

// Read returns the Cell at address, or the zero Cell if nothing has been
// written there yet.
func (m *Memory) Read(address uint64) Cell {
	m.AccessCount++
	m.ReadCount++
	return m.cells[address]
}

// Write stores value at address, extending the mapping if necessary.
func (m *Memory) Write(address uint64, value Cell) {
	m.AccessCount++
	m.WriteCount++
	m.cells[address] = value
}

// Reset clears every cell and the access counters.
func (m *Memory) Reset() {
	m.cells = make(map[uint64]Cell)
	m.AccessCount = 0
	m.ReadCount = 0
	m.WriteCount = 0
}

// Len reports how many distinct addresses have been written.
func (m *Memory) Len() int {
	return len(m.cells)
}

// Addresses returns every address currently holding a non-default entry,
// unordered. Callers that need a stable order (persistence, debug dumps)
// sort the result themselves.
func (m *Memory) Addresses() []uint64 {
	addrs := make([]uint64, 0, len(m.cells))
	for a := range m.cells {
		addrs = append(addrs, a)
	}
	return addrs
}

// LoadImage writes every entry of image into memory, as produced by the
// compiler's data-section pass.
func (m *Memory) LoadImage(image map[uint64]Cell) {
	for addr, val := range image {
		m.Write(addr, val)
	}
}
