// =============================================================================
// ONIX Export - Structural Checker
// =============================================================================
//
// The checker re-reads an ONIX file and verifies the ordering and
// mutual-exclusion rules the exporter is built around. It is a post-hoc
// sanity check for generated (or hand-edited) feeds, not a replacement for
// validating against the EDItEUR XSD.
//
// RULES CHECKED:
//   - root is ONIXMessage in the 3.0 reference namespace, with a Header
//   - DescriptiveDetail: Measure before TitleDetail, Contributor and
//     NoContributor after it, exactly one of the two present
//   - CollateralDetail, when present, is not empty
//   - ResourceLink contains no whitespace
//   - SupplyDetail: Supplier before ProductAvailability, exactly one of
//     Price and UnpricedItemType
//   - Price: Tax before CurrencyCode
//
// =============================================================================

package validation

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"

	"github.com/ginjaninja78/onix-export/internal/onix"
)

// Violation is one broken structural rule.
type Violation struct {
	// Product is the RecordReference of the offending product, "" for
	// message-level violations.
	Product string

	// Path locates the element, e.g. "Product[3]/DescriptiveDetail".
	Path string

	Message string
}

func (v Violation) String() string {
	if v.Product == "" {
		return fmt.Sprintf("%s: %s", v.Path, v.Message)
	}
	return fmt.Sprintf("%s (%s): %s", v.Path, v.Product, v.Message)
}

// CheckResult summarizes one checked document.
type CheckResult struct {
	Products   int
	Violations []Violation
}

// OK reports whether no rule was broken.
func (r CheckResult) OK() bool {
	return len(r.Violations) == 0
}

// CheckFile checks the ONIX file at path.
func CheckFile(path string) (CheckResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return CheckResult{}, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	res, err := CheckDocument(f)
	if err != nil {
		return res, errors.Wrapf(err, "checking %s", path)
	}
	return res, nil
}

// CheckDocument checks an ONIX document. The error is only set when the
// input is not well-formed XML.
func CheckDocument(r io.Reader) (CheckResult, error) {
	root, err := parseTree(r)
	if err != nil {
		return CheckResult{}, err
	}

	c := &checker{}
	c.checkMessage(root)
	return CheckResult{Products: c.products, Violations: c.violations}, nil
}

// =============================================================================
// ELEMENT TREE
// =============================================================================

type node struct {
	name     xml.Name
	text     string
	children []*node
}

func (n *node) child(name string) *node {
	for _, c := range n.children {
		if c.name.Local == name {
			return c
		}
	}
	return nil
}

func (n *node) all(name string) []*node {
	var out []*node
	for _, c := range n.children {
		if c.name.Local == name {
			out = append(out, c)
		}
	}
	return out
}

// positions returns the child indexes of each named element.
func (n *node) positions(name string) []int {
	var out []int
	for i, c := range n.children {
		if c.name.Local == name {
			out = append(out, i)
		}
	}
	return out
}

func parseTree(r io.Reader) (*node, error) {
	dec := xml.NewDecoder(r)
	var stack []*node
	var root *node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "parsing XML")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(t)
			}
		}
	}

	if root == nil {
		return nil, errors.New("document has no root element")
	}
	return root, nil
}

// =============================================================================
// RULES
// =============================================================================

type checker struct {
	products   int
	violations []Violation
}

func (c *checker) add(product, path, format string, args ...any) {
	c.violations = append(c.violations, Violation{Product: product, Path: path, Message: fmt.Sprintf(format, args...)})
}

func (c *checker) checkMessage(root *node) {
	if root.name.Local != "ONIXMessage" {
		c.add("", root.name.Local, "root element is %s, want ONIXMessage", root.name.Local)
		return
	}
	if root.name.Space != onix.Namespace {
		c.add("", "ONIXMessage", "namespace %q, want %q", root.name.Space, onix.Namespace)
	}
	if root.child("Header") == nil {
		c.add("", "ONIXMessage", "missing Header")
	}

	for _, p := range root.all("Product") {
		c.products++
		c.checkProduct(p, fmt.Sprintf("Product[%d]", c.products))
	}
}

func (c *checker) checkProduct(p *node, path string) {
	ref := ""
	if rr := p.child("RecordReference"); rr != nil {
		ref = strings.TrimSpace(rr.text)
	}

	if d := p.child("DescriptiveDetail"); d != nil {
		c.checkDescriptive(ref, path+"/DescriptiveDetail", d)
	} else {
		c.add(ref, path, "missing DescriptiveDetail")
	}

	if cd := p.child("CollateralDetail"); cd != nil {
		c.checkCollateral(ref, path+"/CollateralDetail", cd)
	}

	for i, ps := range p.all("ProductSupply") {
		for j, sd := range ps.all("SupplyDetail") {
			c.checkSupplyDetail(ref, fmt.Sprintf("%s/ProductSupply[%d]/SupplyDetail[%d]", path, i+1, j+1), sd)
		}
	}
}

func (c *checker) checkDescriptive(ref, path string, d *node) {
	titles := d.positions("TitleDetail")
	if len(titles) == 0 {
		c.add(ref, path, "missing TitleDetail")
		return
	}
	firstTitle, lastTitle := titles[0], titles[len(titles)-1]

	for _, m := range d.positions("Measure") {
		if m > firstTitle {
			c.add(ref, path, "Measure after TitleDetail")
			break
		}
	}

	contributors := d.positions("Contributor")
	noContributor := d.positions("NoContributor")
	for _, i := range append(append([]int{}, contributors...), noContributor...) {
		if i < lastTitle {
			c.add(ref, path, "%s before TitleDetail", d.children[i].name.Local)
			break
		}
	}

	switch {
	case len(contributors) > 0 && len(noContributor) > 0:
		c.add(ref, path, "both Contributor and NoContributor present")
	case len(contributors) == 0 && len(noContributor) == 0:
		c.add(ref, path, "neither Contributor nor NoContributor present")
	}
}

func (c *checker) checkCollateral(ref, path string, cd *node) {
	if len(cd.children) == 0 {
		c.add(ref, path, "empty CollateralDetail")
	}
	for _, sr := range cd.all("SupportingResource") {
		for _, rv := range sr.all("ResourceVersion") {
			for _, link := range rv.all("ResourceLink") {
				if strings.IndexFunc(strings.TrimSpace(link.text), unicode.IsSpace) >= 0 {
					c.add(ref, path, "ResourceLink contains whitespace: %q", link.text)
				}
			}
		}
	}
}

func (c *checker) checkSupplyDetail(ref, path string, sd *node) {
	suppliers := sd.positions("Supplier")
	availability := sd.positions("ProductAvailability")
	if len(availability) == 0 {
		c.add(ref, path, "missing ProductAvailability")
	} else if len(suppliers) > 0 && suppliers[len(suppliers)-1] > availability[0] {
		c.add(ref, path, "Supplier after ProductAvailability")
	}

	prices := sd.all("Price")
	unpriced := sd.all("UnpricedItemType")
	switch {
	case len(prices) > 0 && len(unpriced) > 0:
		c.add(ref, path, "both Price and UnpricedItemType present")
	case len(prices) == 0 && len(unpriced) == 0:
		c.add(ref, path, "neither Price nor UnpricedItemType present")
	}

	for i, p := range prices {
		taxes := p.positions("Tax")
		currency := p.positions("CurrencyCode")
		if len(taxes) > 0 && len(currency) > 0 && taxes[len(taxes)-1] > currency[0] {
			c.add(ref, fmt.Sprintf("%s/Price[%d]", path, i+1), "Tax after CurrencyCode")
		}
	}
}
