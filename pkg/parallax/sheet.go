package parallax

import "layerstack/pkg/html"

// SheetPublisher writes offsets into a <style> element as :root custom
// properties. Every layer reads them from there, so one publish is a
// single DOM write however many layers there are.
type SheetPublisher struct {
	Node *html.Node

	// Changed, if set, runs after every write.
	Changed func()
}

// NewSheetPublisher returns a publisher writing to sheet.
func NewSheetPublisher(sheet *html.Node) *SheetPublisher {
	return &SheetPublisher{Node: sheet}
}

func (s *SheetPublisher) Publish(o Offsets) {
	s.Node.SetTextContent(FormatRootVariables(o))
	if s.Changed != nil {
		s.Changed()
	}
}
