package database

import (
	"strings"
	"testing"
)

func TestRelationTarget(t *testing.T) {
	tests := []struct {
		relation   string
		content    string
		identifier string
	}{
		{"Like", "Post", "id"},
		{"Subscriber", "User", "name"},
		{"Block", "User", "name"},
		{"Love", "Comment", "id"},
	}

	for _, tt := range tests {
		content, identifier := relationTarget(tt.relation)
		if content != tt.content || identifier != tt.identifier {
			t.Errorf("relationTarget(%q) = %q, %q, want %q, %q", tt.relation, content, identifier, tt.content, tt.identifier)
		}
	}
}

func TestReportKey(t *testing.T) {
	key := reportKey("bob", "42 x\n")
	if len(key) > 250 || strings.ContainsAny(key, " \n\r\t") {
		t.Fatalf("reportKey() = %q, not a valid memcached key", key)
	}

	if reportKey("a-b", "c") == reportKey("a", "b-c") {
		t.Fatalf("reportKey() collides on the separator")
	}
	if reportKey("bob", "42") != reportKey("bob", "42") {
		t.Fatalf("reportKey() is not stable")
	}
}
