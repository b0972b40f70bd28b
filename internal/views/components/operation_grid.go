package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"visionlab/internal/operations"
)

const GridColumns = 4

// OperationGrid is one button per catalog entry, laid out row by row.
type OperationGrid struct {
	container *fyne.Container
	buttons   []*widget.Button
	handler   func(operations.Entry)
}

func NewOperationGrid(entries []operations.Entry) *OperationGrid {
	g := &OperationGrid{}

	objects := make([]fyne.CanvasObject, 0, len(entries))
	for _, entry := range entries {
		button := widget.NewButton(entry.Label, func() {
			if g.handler != nil {
				g.handler(entry)
			}
		})
		g.buttons = append(g.buttons, button)
		objects = append(objects, button)
	}

	g.container = container.NewGridWithColumns(GridColumns, objects...)
	return g
}

// SetHandler sets the function called with the tapped entry.
func (g *OperationGrid) SetHandler(handler func(operations.Entry)) {
	g.handler = handler
}

func (g *OperationGrid) Buttons() []*widget.Button {
	return g.buttons
}

func (g *OperationGrid) GetContainer() *fyne.Container {
	return g.container
}
