package clipboard

import "testing"

func TestPermissionMonotonicity(t *testing.T) {
	sandboxed := Sandboxed()
	trusted := Trusted()
	yolo := Yolo()

	scopes := []Scope{ScopeAgent, ScopeProject, ScopeSystem}
	for _, s := range scopes {
		if sandboxed.CanRead(s) && !trusted.CanRead(s) {
			t.Fatalf("sandboxed read %v not subset of trusted", s)
		}
		if sandboxed.CanWrite(s) && !trusted.CanWrite(s) {
			t.Fatalf("sandboxed write %v not subset of trusted", s)
		}
		if trusted.CanRead(s) && !yolo.CanRead(s) {
			t.Fatalf("trusted read %v not subset of yolo", s)
		}
		if trusted.CanWrite(s) && !yolo.CanWrite(s) {
			t.Fatalf("trusted write %v not subset of yolo", s)
		}
	}
}

func TestTrustedDeniesSystemWrite(t *testing.T) {
	p := Trusted()
	if p.CanWrite(ScopeSystem) {
		t.Fatal("trusted must not permit system write")
	}
	if !p.CanRead(ScopeSystem) {
		t.Fatal("trusted must permit system read")
	}
}

func TestSandboxedOnlyAgent(t *testing.T) {
	p := Sandboxed()
	if !p.CanRead(ScopeAgent) || !p.CanWrite(ScopeAgent) {
		t.Fatal("sandboxed must permit agent scope")
	}
	if p.CanRead(ScopeProject) || p.CanWrite(ScopeProject) || p.CanRead(ScopeSystem) || p.CanWrite(ScopeSystem) {
		t.Fatal("sandboxed must deny project/system")
	}
}

func TestParsePermissionPresetLegacyWorkerAlias(t *testing.T) {
	if got := ParsePermissionPreset("worker"); got != Sandboxed() {
		t.Fatalf("got %+v", got)
	}
}

func TestParsePermissionPresetUnknownFallsBackToSandboxed(t *testing.T) {
	if got := ParsePermissionPreset("something-made-up"); got != Sandboxed() {
		t.Fatalf("got %+v", got)
	}
}

func TestParsePermissionPresetKnownNames(t *testing.T) {
	if ParsePermissionPreset("yolo") != Yolo() {
		t.Fatal("yolo mismatch")
	}
	if ParsePermissionPreset("trusted") != Trusted() {
		t.Fatal("trusted mismatch")
	}
}
