// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package jmx

import (
	"context"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"
	"github.com/walteh/jmxlabel/pkg/naming"
	"github.com/walteh/jmxlabel/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// JMeter element and attribute names the engine understands.
const (
	TagTransactionController = "TransactionController"
	TagHashTree              = "hashTree"
	TagHTTPSampler           = "HTTPSamplerProxy"
	TagHeaderManager         = "HeaderManager"
	TagStringProp            = "stringProp"

	AttrTestName = "testname"
	AttrName     = "name"

	PropSamplerPath = "HTTPSampler.path"

	// HeartbeatSentinel marks health-check requests that are dropped.
	HeartbeatSentinel = "receiveHeartBeat.do"

	// TransactionPrefix is prepended to every relabeled transaction group ("transaction").
	TransactionPrefix = "事务_"
)

// 🔧 Options controls a rewrite pass
type Options struct {
	LabelWidth    int                    // letters per group label
	TrimPattern   *text.TrimPattern      // optional, removed once from request names
	StripHeaders  bool                   // drop HeaderManager pairs under requests
	Substitutions []text.ReplacementRule // applied in order to request paths
	AllowRerun    bool                   // permit a second Rewrite on the same Document
}

// 📊 Stats counts what a rewrite pass changed
type Stats struct {
	GroupsRenamed      int
	GroupsOverCapacity int
	RequestsRenamed    int
	HeartbeatsRemoved  int
	HeaderPairsRemoved int
	PathsSubstituted   int
}

// 🔄 Rewrite relabels transaction groups and their requests in document order
// and returns one ReportEntry per renamed element, in emission order.
func (d *Document) Rewrite(ctx context.Context, opts Options) ([]ReportEntry, error) {
	logger := zerolog.Ctx(ctx).With().Str("source", d.source).Logger()

	if d.state == StateRewritten && !opts.AllowRerun {
		return nil, errors.Errorf("%w: %s", ErrAlreadyRewritten, d.source)
	}

	root := d.tree.Root()
	groups := collect(root, TagTransactionController, nil)

	// only as many labels as there are groups are ever needed
	labels, err := naming.First(opts.LabelWidth, len(groups))
	if err != nil {
		return nil, errors.Errorf("generating labels: %w", err)
	}

	rw := &rewriter{
		opts:     opts,
		labels:   labels,
		root:     root,
		replacer: text.NewSimpleTextReplacer(),
		logger:   &logger,
	}

	index := 0
	for _, group := range groups {
		// a group inside a dropped heartbeat subtree is gone from the document
		if !rw.attached(group) {
			continue
		}
		index++
		rw.group(group, index)
	}

	if rw.stats.GroupsOverCapacity > 0 {
		logger.Warn().
			Int("capacity", naming.Capacity(opts.LabelWidth)).
			Int("unlabeled", rw.stats.GroupsOverCapacity).
			Msg("more transaction groups than labels, extra groups left unchanged")
	}

	d.stats = rw.stats
	d.state = StateRewritten

	logger.Debug().
		Int("groups", rw.stats.GroupsRenamed).
		Int("requests", rw.stats.RequestsRenamed).
		Int("heartbeats_removed", rw.stats.HeartbeatsRemoved).
		Int("header_pairs_removed", rw.stats.HeaderPairsRemoved).
		Msg("rewrite complete")

	return rw.entries, nil
}

type rewriter struct {
	opts     Options
	labels   []string
	root     *etree.Element
	replacer *text.SimpleTextReplacer
	logger   *zerolog.Logger

	entries []ReportEntry
	stats   Stats
}

// group handles the index-th transaction group (1-based).
func (rw *rewriter) group(el *etree.Element, index int) {
	label := ""
	if index <= len(rw.labels) {
		label = rw.labels[index-1]
		name := TransactionPrefix + label + "#" + text.KeepAfterHash(el.SelectAttrValue(AttrTestName, ""))
		el.CreateAttr(AttrTestName, name)
		rw.entries = append(rw.entries, ReportEntry{Kind: KindTransactionGroup, Number: index, Label: name})
		rw.stats.GroupsRenamed++
	} else {
		rw.stats.GroupsOverCapacity++
	}

	children := nextHashTree(el)
	if children == nil {
		return
	}

	seq := 0
	for _, req := range children.SelectElements(TagHTTPSampler) {
		seq++
		rw.request(req, label, seq)
	}
}

// request handles the seq-th request of a group; label is empty for groups
// beyond label capacity, whose requests are filtered and substituted only.
func (rw *rewriter) request(el *etree.Element, label string, seq int) {
	own := nextHashTree(el)

	if rw.opts.StripHeaders && own != nil {
		rw.stats.HeaderPairsRemoved += stripHeaders(own)
	}

	pathProp := samplerPath(el)
	path := ""
	if pathProp != nil {
		path = pathProp.Text()
	}

	if strings.Contains(path, HeartbeatSentinel) {
		parent := el.Parent()
		parent.RemoveChild(el)
		if own != nil {
			parent.RemoveChild(own)
		}
		tidy(parent)
		rw.stats.HeartbeatsRemoved++
		rw.logger.Debug().Str("path", path).Int("seq", seq).Msg("removed heartbeat request")
		return
	}

	if label != "" {
		name, err := rw.opts.TrimPattern.RemoveFirst(el.SelectAttrValue(AttrTestName, ""))
		if err != nil {
			rw.logger.Warn().Err(err).Str("name", name).Msg("trim pattern failed, keeping name")
		}
		name = fmt.Sprintf("%s_%d#%s", label, seq, text.KeepBeforeQuestionMark(text.KeepAfterHash(name)))
		el.CreateAttr(AttrTestName, name)
		rw.entries = append(rw.entries, ReportEntry{Kind: KindRequest, Number: seq, Label: name})
		rw.stats.RequestsRenamed++
	}

	if pathProp != nil && len(rw.opts.Substitutions) > 0 {
		res := rw.replacer.ReplaceString(path, rw.opts.Substitutions)
		if res.WasModified {
			pathProp.SetText(res.Modified)
			rw.stats.PathsSubstituted++
		}
	}
}

func (rw *rewriter) attached(el *etree.Element) bool {
	for p := el; p != nil; p = p.Parent() {
		if p == rw.root {
			return true
		}
	}
	return false
}

// stripHeaders removes every HeaderManager in container together with the
// element right after it. Removal shifts positions, so each round rescans
// from the start.
func stripHeaders(container *etree.Element) int {
	removed := 0
	for {
		header := container.SelectElement(TagHeaderManager)
		if header == nil {
			tidy(container)
			return removed
		}
		pair := nextElement(header)
		container.RemoveChild(header)
		if pair != nil {
			container.RemoveChild(pair)
		}
		removed++
	}
}

// tidy drops leftover indentation from an element whose children were all
// removed, so it serializes as an empty element.
func tidy(el *etree.Element) {
	if len(el.ChildElements()) > 0 {
		return
	}
	var blanks []etree.Token
	for _, tok := range el.Child {
		if cd, ok := tok.(*etree.CharData); ok && cd.IsWhitespace() {
			blanks = append(blanks, tok)
		}
	}
	for _, tok := range blanks {
		el.RemoveChild(tok)
	}
}

// collect appends every descendant of el tagged tag in depth-first document order.
func collect(el *etree.Element, tag string, out []*etree.Element) []*etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			out = append(out, child)
		}
		out = collect(child, tag, out)
	}
	return out
}

// nextElement returns the element sibling immediately after el, skipping
// whitespace and comments.
func nextElement(el *etree.Element) *etree.Element {
	parent := el.Parent()
	if parent == nil {
		return nil
	}
	siblings := parent.ChildElements()
	for i, s := range siblings {
		if s == el {
			if i+1 < len(siblings) {
				return siblings[i+1]
			}
			return nil
		}
	}
	return nil
}

// nextHashTree returns the hashTree holding el's children, or nil.
func nextHashTree(el *etree.Element) *etree.Element {
	next := nextElement(el)
	if next == nil || next.Tag != TagHashTree {
		return nil
	}
	return next
}

func samplerPath(el *etree.Element) *etree.Element {
	for _, prop := range el.SelectElements(TagStringProp) {
		if prop.SelectAttrValue(AttrName, "") == PropSamplerPath {
			return prop
		}
	}
	return nil
}
