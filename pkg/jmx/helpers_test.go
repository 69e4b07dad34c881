package jmx

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.TestWriter{T: t}).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

// sampler renders a request with its own hashTree holding extra.
func sampler(name, path string, extra ...string) string {
	return fmt.Sprintf(`<HTTPSamplerProxy guiclass="HttpTestSampleGui" testclass="HTTPSamplerProxy" testname="%s" enabled="true">
<stringProp name="HTTPSampler.domain">example.com</stringProp>
<stringProp name="HTTPSampler.path">%s</stringProp>
<stringProp name="HTTPSampler.method">GET</stringProp>
</HTTPSamplerProxy>
<hashTree>%s</hashTree>`, name, path, strings.Join(extra, "\n"))
}

// group renders a transaction controller followed by its hashTree.
func group(name string, children ...string) string {
	return fmt.Sprintf(`<TransactionController guiclass="TransactionControllerGui" testclass="TransactionController" testname="%s" enabled="true">
<boolProp name="TransactionController.includeTimers">false</boolProp>
</TransactionController>
<hashTree>%s</hashTree>`, name, strings.Join(children, "\n"))
}

func headerPair() string {
	return `<HeaderManager guiclass="HeaderPanel" testclass="HeaderManager" testname="HTTP Header Manager" enabled="true">
<collectionProp name="HeaderManager.headers">
<elementProp name="" elementType="Header"><stringProp name="Header.name">Cookie</stringProp></elementProp>
</collectionProp>
</HeaderManager>
<hashTree/>`
}

func assertion() string {
	return `<ResponseAssertion testname="Response Assertion" enabled="true"><intProp name="Assertion.test_type">16</intProp></ResponseAssertion>
<hashTree/>`
}

// plan wraps groups in the usual TestPlan / ThreadGroup scaffolding.
func plan(groups ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<jmeterTestPlan version="1.2" properties="5.0" jmeter="5.6.3">
  <hashTree>
    <TestPlan guiclass="TestPlanGui" testclass="TestPlan" testname="Test Plan" enabled="true">
      <elementProp name="TestPlan.user_defined_variables" elementType="Arguments" testname="User Defined Variables">
        <collectionProp name="Arguments.arguments"/>
      </elementProp>
    </TestPlan>
    <hashTree>
      <!-- load profile -->
      <ThreadGroup guiclass="ThreadGroupGui" testclass="ThreadGroup" testname="Thread Group" enabled="true">
        <stringProp name="ThreadGroup.num_threads">10</stringProp>
      </ThreadGroup>
      <hashTree>
` + strings.Join(groups, "\n") + `
      </hashTree>
    </hashTree>
  </hashTree>
</jmeterTestPlan>
`
}

func mustParse(t *testing.T, xml string) *Document {
	t.Helper()
	doc, err := ParseBytes(testContext(t), "test.jmx", []byte(xml))
	require.NoError(t, err, "parsing test plan")
	return doc
}

// all returns elements tagged tag in document order.
func all(doc *Document, tag string) []*etree.Element {
	return collect(doc.Root(), tag, nil)
}

func testNames(doc *Document, tag string) []string {
	var names []string
	for _, el := range all(doc, tag) {
		names = append(names, el.SelectAttrValue(AttrTestName, ""))
	}
	return names
}

func samplerPaths(doc *Document) []string {
	var paths []string
	for _, el := range all(doc, TagHTTPSampler) {
		paths = append(paths, samplerPath(el).Text())
	}
	return paths
}
