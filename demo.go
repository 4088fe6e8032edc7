package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arturoeanton/go-xpath/xpath"
)

// demoRegistry links the "demo [name]" command to the function that
// runs it, the same lookup table shape the teacher used for its own
// gallery (see the original RunDemos/demoRegistry pair).
var demoRegistry = map[string]func(){
	"basic":     demo_BasicPath,
	"predicate": demo_Predicate,
	"functions": demo_StringFunctions,
	"flwor":     demo_Flwor,
	"sequence":  demo_HigherOrder,
	"map":       demo_MapArray,
}

func runDemos(arg string) {
	fmt.Println("========================================")
	fmt.Println("   xpathctl - Demo Gallery")
	fmt.Println("========================================")

	if arg == "all" || arg == "" {
		order := []string{"basic", "predicate", "functions", "flwor", "sequence", "map"}
		for _, name := range order {
			printDemoHeader(name)
			demoRegistry[name]()
			time.Sleep(100 * time.Millisecond)
		}
		return
	}
	if fn, ok := demoRegistry[arg]; ok {
		printDemoHeader(arg)
		fn()
		return
	}
	fmt.Printf("unknown demo %q, available: %v\n", arg, demoKeys())
}

func printDemoHeader(name string) {
	fmt.Printf("\n>>> %s <<<\n", strings.ToUpper(name))
	fmt.Println(strings.Repeat("-", 40))
}

func demoKeys() []string {
	keys := make([]string, 0, len(demoRegistry))
	for k := range demoRegistry {
		keys = append(keys, k)
	}
	return keys
}

const demoLibraryXML = `<library>
	<book id="1" available="true"><title>The Little Prince</title><price>9.99</price></book>
	<book id="2" available="false"><title>Dune</title><price>12.50</price></book>
	<book id="3" available="true"><title>Foundation</title><price>8.25</price></book>
</library>`

func demoDoc() *xpath.Node {
	doc, err := xpath.LoadXML(strings.NewReader(demoLibraryXML))
	if err != nil {
		panic(err)
	}
	return doc
}

func runDemoExpr(expr string) {
	sc := xpath.NewStaticContext(xpath.Version31)
	dc := xpath.NewDynamicContext(sc, xpath.WithContextItem(demoDoc()))
	seq, err := xpath.Evaluate(context.Background(), expr, dc)
	if err != nil {
		fmt.Printf("  %s => error: %v\n", expr, err)
		return
	}
	if seq.IsEmpty() {
		fmt.Printf("  %s => ()\n", expr)
		return
	}
	parts := make([]string, 0, len(seq))
	for _, it := range seq {
		parts = append(parts, it.StringValue())
	}
	fmt.Printf("  %s => %s\n", expr, strings.Join(parts, ", "))
}

func demo_BasicPath() {
	fmt.Println("Goal: step through elements and attributes.")
	runDemoExpr("/library/book/title")
	runDemoExpr("//book/@id")
	runDemoExpr("count(/library/book)")
}

func demo_Predicate() {
	fmt.Println("Goal: filter a node sequence with a predicate.")
	runDemoExpr(`/library/book[@available="true"]/title`)
	runDemoExpr("/library/book[price > 9]/title")
	runDemoExpr("/library/book[1]/title")
}

func demo_StringFunctions() {
	fmt.Println("Goal: exercise fn: string and numeric functions.")
	runDemoExpr(`upper-case(/library/book[1]/title)`)
	runDemoExpr(`string-join(/library/book/title, "; ")`)
	runDemoExpr(`sum(/library/book/price)`)
	runDemoExpr(`format-number(sum(/library/book/price), "0.00")`)
}

func demo_Flwor() {
	fmt.Println("Goal: FLWOR iteration with a let binding and ordering.")
	runDemoExpr(`for $b in /library/book order by $b/price return $b/title`)
	runDemoExpr(`let $cheap := /library/book[price < 10] return count($cheap)`)
}

func demo_HigherOrder() {
	fmt.Println("Goal: apply fn:filter/fn:fold-left over a sequence.")
	runDemoExpr(`fn:filter(/library/book/price, function($p) { $p < 10 })`)
	runDemoExpr(`fn:fold-left(/library/book/price, 0, function($acc, $p) { $acc + $p })`)
}

func demo_MapArray() {
	fmt.Println("Goal: build and query map/array items.")
	runDemoExpr(`map:get(map { "a": 1, "b": 2 }, "b")`)
	runDemoExpr(`array:size([1, 2, 3, 4])`)
	runDemoExpr(`array:flatten([[1, 2], [3]])`)
}
