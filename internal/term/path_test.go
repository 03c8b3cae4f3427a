package term

import (
	"context"
	"testing"
)

func TestPreparePathForShell(t *testing.T) {
	cases := []struct {
		name  string
		path  string
		shell ShellType
		want  string
	}{
		{"plain posix", "/home/user/project", ShellBash, "/home/user/project"},
		{"posix space", "/home/user/my project", ShellZsh, "'/home/user/my project'"},
		{"posix quote", "/tmp/it's here", ShellSh, `'/tmp/it'\''s here'`},
		{"fish space", "/srv/app data", ShellFish, "'/srv/app data'"},
		{"posix dollar", "/tmp/$cache", ShellBash, "'/tmp/$cache'"},
		{"pwsh plain", `C:\Users\dev`, ShellPwsh, `C:\Users\dev`},
		{"pwsh space", `C:\Program Files\App`, ShellPwsh, `'C:\Program Files\App'`},
		{"pwsh quote", `C:\dev's\box`, ShellPwsh, `'C:\dev''s\box'`},
		{"cmd space", `C:\Program Files\App`, ShellCmd, `"C:\Program Files\App"`},
		{"empty", "", ShellBash, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PreparePathForShell(tc.path, tc.shell); got != tc.want {
				t.Fatalf("PreparePathForShell(%q, %s) = %q, want %q", tc.path, tc.shell, got, tc.want)
			}
		})
	}
}

func TestServicePreparePathHonorsContext(t *testing.T) {
	svc := NewService(Options{NewRunner: newRunnerTracker().factory})

	got, err := svc.PreparePathForShell(context.Background(), "/a b", ShellBash)
	if err != nil {
		t.Fatalf("PreparePathForShell: %v", err)
	}
	if got != "'/a b'" {
		t.Fatalf("prepared = %q, want '/a b' quoted", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.PreparePathForShell(ctx, "/a", ShellBash); err == nil {
		t.Fatalf("cancelled context should fail")
	}
}
