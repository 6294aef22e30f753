// Package expr evaluates the JavaScript-like condition language used by
// rule definitions. There is no AST; expressions are dissected by
// substring, which keeps the grammar exactly as permissive as the rule
// corpus needs. A condition can never fail: anything unrecognized
// evaluates to false.
package expr

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"winter/internal/plugin"
)

// Evaluator binds conditions to one node of a document.
type Evaluator struct {
	doc plugin.Document
	idx int
}

func NewEvaluator(doc plugin.Document, idx int) *Evaluator {
	return &Evaluator{doc: doc, idx: idx}
}

func (e *Evaluator) node() plugin.Node {
	return e.doc.Node(e.idx)
}

// Eval evaluates a condition. The split on " && " happens before
// " || ", so mixed operators at one nesting level read as
// a && (b || c). Parentheses group explicitly.
func (e *Evaluator) Eval(cond string) bool {
	if parts := splitTop(cond, " && "); len(parts) > 1 {
		for _, p := range parts {
			if !e.Eval(strings.TrimSpace(p)) {
				return false
			}
		}
		return true
	}
	if parts := splitTop(cond, " || "); len(parts) > 1 {
		for _, p := range parts {
			if e.Eval(strings.TrimSpace(p)) {
				return true
			}
		}
		return false
	}
	return e.evalSingle(cond)
}

func (e *Evaluator) evalSingle(cond string) bool {
	cond = strings.TrimSpace(cond)

	if rest, ok := strings.CutPrefix(cond, "!"); ok && !strings.HasPrefix(rest, "=") {
		return !e.evalSingle(strings.TrimSpace(rest))
	}

	if inner, ok := stripGroup(cond); ok {
		return e.Eval(inner)
	}

	// Comparisons come before function parsing since either side may
	// itself be a call. Strict and loose forms behave identically.
	for _, op := range []string{" !== ", " != "} {
		if parts := strings.Split(cond, op); len(parts) == 2 {
			return e.evalValue(parts[0]) != e.evalValue(parts[1])
		}
	}
	for _, op := range []string{" === ", " == "} {
		if parts := strings.Split(cond, op); len(parts) == 2 {
			return e.evalValue(parts[0]) == e.evalValue(parts[1])
		}
	}
	if parts := strings.Split(cond, " > "); len(parts) == 2 {
		return e.evalNumeric(parts[0]) > e.evalNumeric(parts[1])
	}

	if strings.HasPrefix(cond, "attributes.") {
		return e.evalAttributeExpr(cond)
	}
	if strings.HasPrefix(cond, "parent.") {
		return e.evalParentExpr(cond)
	}
	if strings.Contains(cond, "(") {
		return e.evalFunctionCall(cond)
	}

	return e.evalValue(cond) != ""
}

func (e *Evaluator) evalAttributeExpr(cond string) bool {
	name := strings.TrimPrefix(cond, "attributes.")
	if attr, method, ok := strings.Cut(name, "."); ok {
		return e.evalAttributeMethod(attr, method)
	}
	// Bare access is truthy only for a present, non-empty value.
	v, _ := e.node().Attr(name)
	return v != ""
}

func (e *Evaluator) evalAttributeMethod(attr, method string) bool {
	value, _ := e.node().Attr(attr)

	if arg, ok := callArg(method, "startsWith("); ok {
		return strings.HasPrefix(value, unquote(arg))
	}
	if arg, ok := callArg(method, "endsWith("); ok {
		return strings.HasSuffix(value, unquote(arg))
	}
	// Standalone toUpperCase() asks whether the value is already
	// all-uppercase.
	if strings.Contains(method, "toUpperCase()") {
		return value == strings.ToUpper(value)
	}
	return false
}

func (e *Evaluator) evalParentExpr(cond string) bool {
	parentIdx := e.node().Parent()
	if parentIdx < 0 {
		return false
	}
	parent := e.doc.Node(parentIdx)
	if parent == nil {
		return false
	}
	rest := strings.TrimPrefix(cond, "parent.")

	if arg, ok := callArg(rest, "countChildren("); ok {
		return e.countChildren(parentIdx, unquote(arg)) > 0
	}
	if rest == "name" {
		return parent.Kind() != ""
	}
	return false
}

func (e *Evaluator) evalFunctionCall(cond string) bool {
	if arg, ok := callArg(cond, "countChildren("); ok {
		return e.countChildren(e.idx, unquote(arg)) > 0
	}
	if arg, ok := callArg(cond, "hasChild("); ok {
		return e.countChildren(e.idx, unquote(arg)) > 0
	}
	if arg, ok := callArg(cond, "isValidGuid("); ok {
		return IsValidGuid(e.evalValue(arg))
	}
	if arg, ok := callArg(cond, "isStandardDirectory("); ok {
		return IsStandardDirectory(e.evalValue(arg))
	}
	if arg, ok := callArg(cond, "isStandardDirectoryId("); ok {
		return IsStandardDirectory(e.evalValue(arg))
	}
	if arg, ok := callArg(cond, "isSensitivePropertyName("); ok {
		return IsSensitivePropertyName(e.evalValue(arg))
	}
	if cond == "getDepth()" {
		return e.depth() > 0
	}
	if strings.Contains(cond, ".test(") {
		return e.evalRegexTest(cond)
	}
	return false
}

// evalRegexTest handles /pattern/.test(expr). An invalid pattern is
// silently false.
func (e *Evaluator) evalRegexTest(cond string) bool {
	start := strings.Index(cond, "/")
	if start < 0 {
		return false
	}
	end := strings.Index(cond[start+1:], "/")
	if end < 0 {
		return false
	}
	pattern := cond[start+1 : start+1+end]

	testStart := strings.Index(cond, ".test(")
	if testStart < 0 {
		return false
	}
	arg, ok := strings.CutSuffix(cond[testStart+len(".test("):], ")")
	if !ok {
		return false
	}

	re := compile(pattern)
	if re == nil {
		return false
	}
	return re.MatchString(e.evalValue(arg))
}

// evalValue resolves an expression to a string. Absent attributes read
// as "" rather than erroring.
func (e *Evaluator) evalValue(expr string) string {
	expr = strings.TrimSpace(expr)

	if len(expr) >= 2 {
		if (expr[0] == '\'' && expr[len(expr)-1] == '\'') ||
			(expr[0] == '"' && expr[len(expr)-1] == '"') {
			return expr[1 : len(expr)-1]
		}
	}
	if attr, ok := strings.CutPrefix(expr, "attributes."); ok {
		// Method chains like attributes.Id.toUpperCase() resolve to
		// the bare attribute value.
		name, _, _ := strings.Cut(attr, ".")
		v, _ := e.node().Attr(name)
		return v
	}
	return expr
}

func (e *Evaluator) evalNumeric(expr string) int64 {
	expr = strings.TrimSpace(expr)

	if arg, ok := callArg(expr, "countChildren("); ok {
		return int64(e.countChildren(e.idx, unquote(arg)))
	}
	if arg, ok := callArg(expr, "parent.countChildren("); ok {
		return int64(e.countChildren(e.node().Parent(), unquote(arg)))
	}
	if expr == "getDepth()" {
		return int64(e.depth())
	}
	n, err := strconv.ParseInt(expr, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// countChildren counts direct children of node idx; empty name counts
// all of them.
func (e *Evaluator) countChildren(idx int, name string) int {
	if idx < 0 {
		return 0
	}
	n := e.doc.Node(idx)
	if n == nil {
		return 0
	}
	if name == "" {
		return len(n.Children())
	}
	count := 0
	for _, c := range n.Children() {
		if child := e.doc.Node(c); child != nil && child.Kind() == name {
			count++
		}
	}
	return count
}

func (e *Evaluator) depth() int {
	depth := 0
	for idx := e.idx; idx >= 0; {
		n := e.doc.Node(idx)
		if n == nil {
			break
		}
		depth++
		idx = n.Parent()
	}
	return depth
}

// callArg extracts the raw argument of prefix(...), requiring the call
// to span the whole expression.
func callArg(expr, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(expr, prefix)
	if !ok {
		return "", false
	}
	return strings.CutSuffix(rest, ")")
}

func unquote(s string) string {
	return strings.Trim(s, `'"`)
}

// stripGroup removes outer parentheses when they wrap the whole
// expression.
func stripGroup(cond string) (string, bool) {
	if len(cond) < 2 || cond[0] != '(' || cond[len(cond)-1] != ')' {
		return "", false
	}
	depth := 0
	for i := 0; i < len(cond); i++ {
		switch cond[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(cond)-1 {
				return "", false
			}
		}
	}
	if depth != 0 {
		return "", false
	}
	return cond[1 : len(cond)-1], true
}

// splitTop splits on sep occurrences outside parentheses and quotes.
func splitTop(s, sep string) []string {
	var parts []string
	depth := 0
	var quote byte
	last := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
		case depth == 0 && strings.HasPrefix(s[i:], sep):
			parts = append(parts, s[last:i])
			i += len(sep) - 1
			last = i + 1
		}
	}
	parts = append(parts, s[last:])
	return parts
}

var regexCache sync.Map // pattern -> *regexp.Regexp (nil entry = invalid)

func compile(pattern string) *regexp.Regexp {
	if v, ok := regexCache.Load(pattern); ok {
		re, _ := v.(*regexp.Regexp)
		return re
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		re = nil
	}
	regexCache.Store(pattern, re)
	return re
}
