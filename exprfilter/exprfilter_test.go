package exprfilter

import "testing"

type ticket struct {
	Status   string
	Priority int
}

func ticketFields(t ticket) map[string]interface{} {
	return map[string]interface{}{"status": t.Status, "priority": t.Priority}
}

func TestExprMatchesAndVars(t *testing.T) {
	expr, err := New[ticket](`status == "open" && priority > 2`, ticketFields)
	if err != nil {
		t.Fatalf("New: %s", err)
	}

	if !expr.Eval(ticket{Status: "open", Priority: 3}) {
		t.Fatal("expected match for open/priority 3")
	}
	if expr.Eval(ticket{Status: "open", Priority: 1}) {
		t.Fatal("expected no match for priority below threshold")
	}
	if expr.Eval(ticket{Status: "closed", Priority: 5}) {
		t.Fatal("expected no match for closed status")
	}

	vars := expr.Vars()
	if len(vars) != 2 {
		t.Fatalf("expected 2 referenced vars, got %v", vars)
	}
}

func TestExprInvalidExpressionErrors(t *testing.T) {
	if _, err := New[ticket](`status ==`, ticketFields); err == nil {
		t.Fatal("expected parse error for incomplete expression")
	}
}
