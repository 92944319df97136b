package e2etest

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// labelTarget finds the element of kind tags that the label with labelText points to.
//
// The label either references the element with its for attribute or wraps it.
func labelTarget(form *goquery.Selection, labelText string, tags ...string) (*goquery.Selection, error) {
	label := form.Find(fmt.Sprintf("label:contains('%s')", labelText)).First()
	if label.Length() == 0 {
		return nil, fmt.Errorf("label not found: %s", labelText)
	}

	var target *goquery.Selection
	id, hasFor := label.Attr("for")
	for _, tag := range tags {
		if hasFor {
			target = form.Find(fmt.Sprintf("%s#%s", tag, id))
		} else {
			target = label.Find(tag)
		}
		if target.Length() > 0 {
			return target, nil
		}
	}
	return nil, fmt.Errorf("%v not found for label: %s", tags, labelText)
}

// FindInputForLabel finds the input or textarea associated with a label in the given form.
func FindInputForLabel(form *goquery.Selection, labelText string) (*goquery.Selection, error) {
	return labelTarget(form, labelText, "input", "textarea")
}

// FindSelectForLabel finds the select element associated with a label in the given form.
func FindSelectForLabel(form *goquery.Selection, labelText string) (*goquery.Selection, error) {
	return labelTarget(form, labelText, "select")
}

// IsMultipleSelect checks if a select element has the multiple attribute.
func IsMultipleSelect(selectElement *goquery.Selection) bool {
	_, exists := selectElement.Attr("multiple")
	return exists
}

// FindForm finds a form in the doc identified with action formActionUrlPath and returns the form selection.
func FindForm(doc *goquery.Document, formActionURLPath string) (*goquery.Selection, error) {
	form := doc.Find(fmt.Sprintf("form[action='%s']", formActionURLPath))
	if form.Length() == 0 {
		return nil, fmt.Errorf("form not found: %s", formActionURLPath)
	}
	return form, nil
}
