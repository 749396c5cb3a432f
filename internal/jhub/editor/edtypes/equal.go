package edtypes

// Equal сравнивает документы структурно, без сериализации.
// Порядок детей и меток значим, числа сравниваются по значению,
// nil и пустые коллекции считаются равными.
func Equal(a, b *Document) bool {
	if a == nil || b == nil {
		return a == b
	}
	return NodesEqual(a.Root, b.Root)
}

// NodesEqual сравнивает два поддерева.
func NodesEqual(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type || a.Text != b.Text {
		return false
	}
	if !equalAttrs(a.Attrs, b.Attrs) {
		return false
	}
	if len(a.Marks) != len(b.Marks) {
		return false
	}
	for i := range a.Marks {
		if !a.Marks[i].Equal(b.Marks[i]) {
			return false
		}
	}
	if len(a.Content) != len(b.Content) {
		return false
	}
	for i := range a.Content {
		if !NodesEqual(a.Content[i], b.Content[i]) {
			return false
		}
	}
	return true
}

func (m Mark) Equal(o Mark) bool {
	return m.Type == o.Type && equalAttrs(m.Attrs, o.Attrs)
}

// SameMarks сравнивает наборы меток двух узлов.
func SameMarks(a, b []Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
