package cssom

import (
	"strings"
)

// DeclaredStyle holds the declarations of a single style attribute.
type DeclaredStyle struct {
	values    [numProperties]Value
	important [numProperties]bool
	count     int
}

// NewDeclaredStyle returns an empty declaration block.
func NewDeclaredStyle() *DeclaredStyle {
	return &DeclaredStyle{}
}

// Get returns the declared value of k.
func (d *DeclaredStyle) Get(k PropertyKey) (Value, bool) {
	if d == nil || !k.Valid() || d.values[k] == nil {
		return nil, false
	}
	return d.values[k], true
}

// IsImportant reports whether k was declared with !important.
func (d *DeclaredStyle) IsImportant(k PropertyKey) bool {
	return d != nil && k.Valid() && d.important[k]
}

// Set declares v for k. A nil value removes the declaration.
func (d *DeclaredStyle) Set(k PropertyKey, v Value) {
	d.set(k, v, false)
}

func (d *DeclaredStyle) set(k PropertyKey, v Value, important bool) {
	if !k.Valid() {
		return
	}
	if d.values[k] == nil && v != nil {
		d.count++
	} else if d.values[k] != nil && v == nil {
		d.count--
	}
	d.values[k] = v
	d.important[k] = important && v != nil
}

// Remove drops the declaration of k.
func (d *DeclaredStyle) Remove(k PropertyKey) {
	d.set(k, nil, false)
}

// Len returns the number of declared longhands.
func (d *DeclaredStyle) Len() int {
	if d == nil {
		return 0
	}
	return d.count
}

// Equal reports whether both blocks declare the same values.
func (d *DeclaredStyle) Equal(other *DeclaredStyle) bool {
	if d.Len() != other.Len() {
		return false
	}
	if d.Len() == 0 {
		return true
	}
	for k := range d.values {
		if !ValuesEqual(d.values[k], other.values[k]) || d.important[k] != other.important[k] {
			return false
		}
	}
	return true
}

// String serializes the block back to declaration text.
func (d *DeclaredStyle) String() string {
	if d.Len() == 0 {
		return ""
	}
	var b strings.Builder
	for k := PropertyKey(0); k < numProperties; k++ {
		v := d.values[k]
		if v == nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k.String())
		b.WriteString(": ")
		b.WriteString(v.String())
		if d.important[k] {
			b.WriteString(" !important")
		}
		b.WriteByte(';')
	}
	return b.String()
}
