package domain

// DedupIndex 已合併訊息 id 的有界集合，超出上限依進入順序汰舊
type DedupIndex struct {
	ceiling int
	seen    map[string]struct{}
	order   []string
}

// NewDedupIndex create a DedupIndex，
// ceiling 必須大於訊息視窗容量，不然重送會被當成新訊息
func NewDedupIndex(ceiling, bufferCapacity int) *DedupIndex {
	if bufferCapacity <= 0 {
		bufferCapacity = 1
	}
	if ceiling < bufferCapacity {
		ceiling = bufferCapacity * 3
	}
	return &DedupIndex{
		ceiling: ceiling,
		seen:    make(map[string]struct{}, ceiling),
	}
}

// Add 回傳 true 表示第一次看到這個 id
func (d *DedupIndex) Add(id string) bool {
	if _, ok := d.seen[id]; ok {
		return false
	}
	d.seen[id] = struct{}{}
	d.order = append(d.order, id)
	for len(d.order) > d.ceiling {
		oldest := d.order[0]
		copy(d.order, d.order[1:])
		d.order = d.order[:len(d.order)-1]
		delete(d.seen, oldest)
	}
	return true
}

// Has check id already merged
func (d *DedupIndex) Has(id string) bool {
	_, ok := d.seen[id]
	return ok
}

// Len current index size
func (d *DedupIndex) Len() int {
	return len(d.seen)
}

// Ceiling index max size
func (d *DedupIndex) Ceiling() int {
	return d.ceiling
}
