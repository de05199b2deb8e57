package layerstack

import (
	"fmt"

	tp "github.com/xlab/treeprint"
)

// Dump prints the elements of s as a tree: the container with its inline
// geometry, the layers in DOM order with their properties, and the
// offsets sheet.
func Dump(s *Stack) string {
	p := tp.New()
	state := "live"
	if s.destroyed {
		state = "destroyed"
	} else if s.destroying {
		state = "destroying"
	}
	style, _ := s.container.GetAttribute("style")
	container := p.AddBranch(fmt.Sprintf("%s (%s) %s", ContainerClass, state, style))
	stack := container.AddBranch(StackClass)
	for i := len(s.layers) - 1; i >= 0; i-- {
		layer := stack.AddBranch(fmt.Sprintf("%s[%d]", LayerClass, i))
		for _, prop := range s.specs[i].Properties() {
			layer.AddNode(prop.Name + ": " + prop.Value)
		}
	}
	p.AddNode("sheet " + s.sheet.TextContent())
	return p.String()
}
