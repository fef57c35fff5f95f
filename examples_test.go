package pst_test

import (
	"fmt"

	"github.com/structcodec/pst"
)

func Example() {
	az := pst.NewAtomizer(pst.AtomizerConfig{})
	tbl, err := pst.NewTable([]pst.TemplateSpec{
		{Atoms: []string{"LIT(the)", "WS( )", "VAR"}},
	})
	if err != nil {
		panic(err)
	}

	stream := tbl.EncodeText(az, "the fox")
	fmt.Println(stream)

	text, err := tbl.Decode(stream)
	if err != nil {
		panic(err)
	}
	fmt.Println(text)
	// Output:
	// [<T0> fox]
	// the fox
}

func ExampleVocab() {
	az := pst.NewAtomizer(pst.AtomizerConfig{})
	vocab := pst.BuildVocab(az, "the quick brown fox", 1)

	ids := vocab.EncodeIDs(az, "the fox")
	fmt.Println(vocab.DecodeIDs(ids))
	// Output:
	// [LIT(the) WS( ) VAR]
}
