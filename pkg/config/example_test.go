package config_test

import (
	"fmt"

	"github.com/walteh/jmxlabel/pkg/config"
)

func ExampleConfig_Validate() {
	cfg := config.Default()
	cfg.LabelWidth = 0

	err := cfg.Validate()
	fmt.Println(err)

	// Output:
	// invalid config: label_width must be between 1 and 4, got 0
}

func ExampleParseSubstitution() {
	sub, err := config.ParseSubstitution("10.0.0.1=${host}")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%s -> %s\n", sub.Old, sub.New)

	// Output:
	// 10.0.0.1 -> ${host}
}
