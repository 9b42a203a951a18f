// Example: print the default configuration of every validator for a language,
// then build the validators of an optional HCL profile.
//
//	go run ./docs/examples/list-defaults ja
//	go run ./docs/examples/list-defaults en profile.hcl
package main

import (
	"fmt"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/BigKAA/redpen-go/validator"
	_ "github.com/BigKAA/redpen-go/validator/checks"
	"github.com/BigKAA/redpen-go/validator/contrib/hclconfig"
)

func main() {
	lang := validator.DefaultLang
	if len(os.Args) > 1 {
		lang = os.Args[1]
	}

	for _, vc := range validator.Configurations(lang) {
		keys := make([]string, 0, len(vc.Properties))
		for k := range vc.Properties {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, k+"="+vc.Properties[k])
		}
		fmt.Printf("%-16s %s\n", vc.Name, strings.Join(pairs, " "))
	}

	if len(os.Args) < 3 {
		return
	}

	cfg, err := hclconfig.Load(os.Args[2])
	if err != nil {
		log.Fatal(err)
	}
	validators, err := validator.Default().Instantiate(cfg)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nprofile %s (%s): %d validators ready\n", os.Args[2], cfg.Language(), len(validators))
	for _, v := range validators {
		if _, ok := v.(validator.SentenceChecker); ok {
			fmt.Printf("  %s checks sentences\n", validator.NameOf(v))
			continue
		}
		fmt.Printf("  %s\n", validator.NameOf(v))
	}
}
