// Command gengardemo runs a short, non-interactive walk through every
// subsystem in this module: the three MemoryResource allocators, BigInt/
// Fraction arithmetic, the five BST balancing tags, the in-memory B-tree,
// and the on-disk B+ tree.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gengardb/pkg/bignum"
	"gengardb/pkg/container"
	"gengardb/pkg/container/btree"
	"gengardb/pkg/diskbtree"
	"gengardb/pkg/memres"
	"gengardb/pkg/memres/buddy"
	"gengardb/pkg/memres/rbarena"
	"gengardb/pkg/memres/sortedlist"

	"golang.org/x/text/unicode/norm"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gengardemo:", err)
		os.Exit(1)
	}
}

func run() error {
	demoBuddy()
	demoRBArena()
	demoSortedList()
	demoBigNum()
	demoBSTPolicies()
	demoNormalizedStringKeys()
	demoBTree()
	if err := demoDiskBTree(); err != nil {
		return err
	}
	return nil
}

func demoBuddy() {
	a, err := buddy.New(16) // 2^16 = 64 KiB region
	if err != nil {
		fmt.Println("buddy: setup failed:", err)
		return
	}
	p1, _ := a.Allocate(100)
	p2, _ := a.Allocate(4000)
	fmt.Println("buddy: allocated two blocks, arena has", len(a.BlocksInfo()), "segments")
	_ = a.Deallocate(p1, 100)
	_ = a.Deallocate(p2, 4000)
}

func demoRBArena() {
	a, err := rbarena.New(1<<16, rbarena.WithFitMode(memres.Worst))
	if err != nil {
		fmt.Println("rbarena: setup failed:", err)
		return
	}
	p, _ := a.Allocate(256)
	fmt.Println("rbarena: worst-fit allocation ok, available now", a.AvailableMemory())
	_ = a.Deallocate(p, 256)
}

func demoSortedList() {
	a, err := sortedlist.New(1 << 14)
	if err != nil {
		fmt.Println("sortedlist: setup failed:", err)
		return
	}
	p, _ := a.Allocate(64)
	fmt.Println("sortedlist: allocation ok, blocks:", len(a.BlocksInfo()))
	_ = a.Deallocate(p, 64)
}

func demoBigNum() {
	a, _ := bignum.FromString("123456789012345678901234567890", 10)
	b, _ := bignum.FromString("987654321098765432109876543210", 10)
	sum := a.Add(b)
	fmt.Println("bignum: a+b =", sum.String())

	one := bignum.FractionFromInt(bignum.FromInt64(1))
	four := bignum.FractionFromInt(bignum.FromInt64(4))
	epsilon, _ := bignum.NewFraction(bignum.FromInt64(1), bignum.FromInt64(10000))

	atanOne, err := bignum.Arctg(one, epsilon)
	if err != nil {
		fmt.Println("bignum: arctan(1) failed:", err)
		return
	}
	fourAtan := four.Mul(atanOne)
	if lnOne, err := bignum.Ln(one, epsilon); err != nil {
		fmt.Println("bignum: ln(1) failed:", err)
	} else {
		fmt.Println("bignum: ln(1) =", lnOne.Numerator.String()+"/"+lnOne.Denominator.String())
	}
	fmt.Println("bignum: 4*arctan(1) ~= pi, numerator/denominator =",
		fourAtan.Numerator.String()+"/"+fourAtan.Denominator.String())
}

func demoBSTPolicies() {
	policies := []container.BalancingPolicy[int, string]{
		container.NewPlain[int, string](),
		container.NewAVL[int, string](),
		container.NewRB[int, string](),
		container.NewSplay[int, string](),
		container.NewScapegoat[int, string](0.75),
	}
	less := func(a, b int) bool { return a < b }
	for _, policy := range policies {
		t := container.New(less, policy)
		for i := 1; i <= 7; i++ {
			t.Insert(i, fmt.Sprintf("v%d", i))
		}
		var keys []int
		for k := range t.InOrder() {
			keys = append(keys, k)
		}
		fmt.Printf("container[%s]: in-order after inserting 1..7 -> %v\n", policy.Name(), keys)
	}
}

// demoNormalizedStringKeys shows why free-form string keys need Unicode
// normalization before they reach an ordered container: "café" typed with a
// precomposed é and "café" typed as e + combining acute look identical but
// compare unequal byte-for-byte. Normalizing both to NFC before insertion
// makes the second insert an overwrite instead of a silent duplicate.
func demoNormalizedStringKeys() {
	precomposed := "café"        // U+00E9 LATIN SMALL LETTER E WITH ACUTE
	decomposed := "café"        // 'e' + U+0301 COMBINING ACUTE ACCENT
	less := func(a, b string) bool { return a < b }

	t := container.New(less, container.NewAVL[string, int]())
	t.Insert(norm.NFC.String(precomposed), 1)
	created := t.Insert(norm.NFC.String(decomposed), 2)
	fmt.Println("container: NFC-normalized duplicate key overwrote instead of duplicating:", !created)
}

func demoBTree() {
	less := func(a, b int) bool { return a < b }
	tr := btree.New[int, string](3, less)
	for i := 0; i < 20; i++ {
		tr.Insert(i, fmt.Sprintf("v%d", i))
	}
	it := btree.NewIterator[int, string](tr)
	count := 0
	maxDepth := 0
	for it.Next() {
		count++
		if it.Depth() > maxDepth {
			maxDepth = it.Depth()
		}
	}
	fmt.Println("btree: iterated", count, "keys, max path depth", maxDepth)
}

func demoDiskBTree() error {
	dir, err := os.MkdirTemp("", "gengardemo-diskbtree")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	nodePath := filepath.Join(dir, "nodes.db")
	dataPath := filepath.Join(dir, "data.db")
	less := func(a, b int64) bool { return a < b }

	tr, err := diskbtree.Open[int64, string](nodePath, dataPath, diskbtree.Int64Codec{}, less)
	if err != nil {
		return err
	}
	for i := int64(0); i < 64; i++ {
		if _, err := tr.Insert(i, fmt.Sprintf("row-%d", i)); err != nil {
			return err
		}
	}
	if err := tr.Close(); err != nil {
		return err
	}

	reopened, err := diskbtree.Open[int64, string](nodePath, dataPath, diskbtree.Int64Codec{}, less)
	if err != nil {
		return err
	}
	defer reopened.Close()

	v, ok := reopened.Get(42)
	fmt.Println("diskbtree: reopened, key 42 ->", v, ok, "total keys:", reopened.Len())
	return nil
}
