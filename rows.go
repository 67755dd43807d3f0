package sktable

// RowOptions configure row iteration.
type RowOptions struct {
	// Start is the index of the first row.
	Start int64

	// Limit is the maximum number of rows to return.
	// Default: 0 (unlimited).
	Limit int64

	// Strip removes a single trailing zero byte from variable items.
	Strip bool
}

func (o *RowOptions) norm() *RowOptions {
	var oo RowOptions
	if o != nil {
		oo = *o
	}

	if oo.Start < 0 {
		oo.Start = 0
	}
	if oo.Limit <= 0 {
		oo.Limit = -1
	}
	return &oo
}

// Rows iterates over assembled table rows. Fixed fields yield int64 values,
// variable fields yield []byte items.
//
// A row's variable items span from its own offset to the offset stored in the
// following record, so the iterator always holds the current record and a
// single lookahead record.
type Rows struct {
	r      *Reader
	recs   *RecordReader
	fields []int
	strip  bool
	limit  int64

	cur, next []int64
	hasNext   bool
	primed    bool

	row []interface{}
	err error
}

// Rows returns an iterator over the named columns. An empty list selects all
// fields in declaration order.
func (r *Reader) Rows(columns []string, opts *RowOptions) (*Rows, error) {
	o := opts.norm()

	fields, err := r.t.resolveColumns(columns)
	if err != nil {
		return nil, err
	}

	recs, err := r.Records(o.Start)
	if err != nil {
		return nil, err
	}

	return &Rows{
		r:      r,
		recs:   recs,
		fields: fields,
		strip:  o.Strip,
		limit:  o.Limit,
		cur:    make([]int64, 0, len(r.t.Fields)),
		next:   make([]int64, 0, len(r.t.Fields)),
		row:    make([]interface{}, len(fields)),
	}, nil
}

func (t *Table) resolveColumns(columns []string) ([]int, error) {
	if len(columns) == 0 {
		fields := make([]int, len(t.Fields))
		for i := range fields {
			fields[i] = i
		}
		return fields, nil
	}

	fields := make([]int, 0, len(columns))
	for _, name := range columns {
		n := t.Field(name)
		if n < 0 {
			return nil, newError(KindConfig, "no such column %q", name)
		}
		fields = append(fields, n)
	}
	return fields, nil
}

// Fields returns the selected fields in column order.
func (rs *Rows) Fields() []*Field {
	res := make([]*Field, 0, len(rs.fields))
	for _, n := range rs.fields {
		res = append(res, &rs.r.t.Fields[n])
	}
	return res
}

// Pos returns the index of the current row.
func (rs *Rows) Pos() int64 {
	if rs.hasNext {
		return rs.recs.Pos() - 2
	}
	return rs.recs.Pos() - 1
}

// Next advances to the next row and returns true if successful.
func (rs *Rows) Next() bool {
	if rs.err != nil || rs.limit == 0 || len(rs.fields) == 0 {
		return false
	}

	if !rs.primed {
		rs.primed = true
		rs.hasNext = rs.advance()
	}
	if !rs.hasNext {
		return false
	}

	rs.cur, rs.next = rs.next, rs.cur
	rs.hasNext = rs.advance()
	if rs.err != nil {
		return false
	}

	if rs.err = rs.assemble(); rs.err != nil {
		return false
	}
	if rs.limit > 0 {
		rs.limit--
	}
	return true
}

// Row returns the current row. The slice is reused on the next cursor move.
func (rs *Rows) Row() []interface{} { return rs.row }

// Err exposes iteration errors, if any.
func (rs *Rows) Err() error {
	if rs.err == errReleased {
		return nil
	}
	return rs.err
}

// Release stops the iteration. The iterator must not be used afterwards.
func (rs *Rows) Release() {
	if rs.err == nil {
		rs.err = errReleased
	}
}

// advance reads the next record into the lookahead slot.
func (rs *Rows) advance() bool {
	if !rs.recs.Next() {
		rs.err = rs.recs.Err()
		return false
	}
	rs.next = append(rs.next[:0], rs.recs.Record()...)
	return true
}

func (rs *Rows) assemble() error {
	for i, n := range rs.fields {
		val := rs.cur[n]

		store := rs.r.stores[n]
		if store == nil {
			rs.row[i] = val
			continue
		}

		end := store.Size()
		if rs.hasNext {
			end = rs.next[n]
		}
		if end < val {
			return newError(KindFormat, "field %s: offset %d is beyond next offset %d", rs.r.t.Fields[n].Name, val, end)
		}

		item, err := store.ReadRange(val, end-val)
		if err != nil {
			return err
		}
		if rs.strip && len(item) != 0 && item[len(item)-1] == 0 {
			item = item[:len(item)-1]
		}
		rs.row[i] = item
	}
	return nil
}
