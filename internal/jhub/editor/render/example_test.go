package render_test

import (
	"fmt"

	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/render"
)

// ExampleRenderer_HTMLFromJSON показывает рендер сохраненного документа.
func ExampleRenderer_HTMLFromJSON() {
	raw := `{"type":"doc","content":[
		{"type":"heading","attrs":{"level":2,"textAlign":"center"},"content":[{"type":"text","text":"Итоги"}]},
		{"type":"paragraph","content":[
			{"type":"text","marks":[{"type":"bold"},{"type":"italic"}],"text":"важно"},
			{"type":"hardBreak"},
			{"type":"text","text":"конец"}
		]}
	]}`

	fmt.Println(render.New().HTMLFromJSON(raw))

	// Output:
	// <div class="tiptap-viewer"><h2 style="text-align:center">Итоги</h2><p><em><strong>важно</strong></em><br/>конец</p></div>
}
