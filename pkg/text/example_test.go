package text_test

import (
	"fmt"

	"github.com/walteh/jmxlabel/pkg/text"
)

func ExampleSimpleTextReplacer_ReplaceString() {
	replacer := text.NewSimpleTextReplacer()

	rules := []text.ReplacementRule{
		{FromText: "10.0.0.1", ToText: "HOST"},
		{FromText: "HOST/api", ToText: "HOST/v2"},
	}

	result := replacer.ReplaceString("http://10.0.0.1/api", rules)

	fmt.Printf("Original: %s\n", result.Original)
	fmt.Printf("Modified: %s\n", result.Modified)
	fmt.Printf("Changes: %d\n", result.ReplacementCount)

	// Output:
	// Original: http://10.0.0.1/api
	// Modified: http://HOST/v2
	// Changes: 2
}

func ExampleTrimPattern_RemoveFirst() {
	p, err := text.CompileTrimPattern(`http://\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	name, _ := p.RemoveFirst("http://192.168.0.10/order/list?page=2")
	fmt.Println(text.KeepBeforeQuestionMark(text.KeepAfterHash(name)))

	// Output:
	// /order/list
}
