package xref

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/astindex/astindex/internal/store"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	s, err := store.Open(filepath.Join(dir, "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestIndexXMLUsagesFindsViewTagsAndFragments(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app", "src", "main", "res", "layout", "activity_main.xml"), `<?xml version="1.0"?>
<androidx.constraintlayout.widget.ConstraintLayout
    android:id="@+id/root">
    <com.example.widgets.AvatarView android:id="@+id/avatar" />
    <fragment android:name="com.example.ui.ProfileFragment" android:id="@+id/profile_fragment" />
</androidx.constraintlayout.widget.ConstraintLayout>
`)

	s := openTestStore(t)
	count, err := IndexXMLUsages(s.DB(), root)
	if err != nil {
		t.Fatal(err)
	}
	if count == 0 {
		t.Fatal("expected at least one xml usage recorded")
	}

	rows, err := s.DB().Query(`SELECT class_name, usage_type, element_id FROM xml_usages ORDER BY line`)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()

	var sawFragment, sawAvatar bool
	for rows.Next() {
		var class, usageType string
		var elementID sql.NullString
		if err := rows.Scan(&class, &usageType, &elementID); err != nil {
			t.Fatal(err)
		}
		if class == "com.example.ui.ProfileFragment" && usageType == "fragment" {
			sawFragment = true
		}
		if class == "com.example.widgets.AvatarView" {
			sawAvatar = true
			if elementID.String != "avatar" {
				t.Errorf("expected element id 'avatar', got %q", elementID.String)
			}
		}
	}
	if !sawFragment {
		t.Error("expected fragment usage via android:name")
	}
	if !sawAvatar {
		t.Error("expected full class tag usage for AvatarView")
	}
}

func TestIndexXMLUsagesIgnoresNonLayoutXML(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app", "src", "main", "res", "values", "strings.xml"), `<resources>
    <string name="app_name">Demo</string>
</resources>
`)

	s := openTestStore(t)
	count, err := IndexXMLUsages(s.DB(), root)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("expected values/ xml to be excluded from layout scanning, got %d usages", count)
	}
}

func TestIndexResourcesDefinitionsAndUsages(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app", "src", "main", "res", "values", "strings.xml"), `<resources>
    <string name="app_name">Demo</string>
    <color name="brand_blue">#0000FF</color>
</resources>
`)
	writeFile(t, filepath.Join(root, "app", "src", "main", "res", "drawable", "ic_launcher.png"), "")
	writeFile(t, filepath.Join(root, "app", "src", "main", "res", "layout", "activity_main.xml"), "<LinearLayout />")
	writeFile(t, filepath.Join(root, "app", "src", "main", "java", "com", "example", "MainActivity.kt"), `
class MainActivity {
    fun onCreate() {
        setTitle(R.string.app_name)
        val color = R.color.brand_blue
    }
}
`)

	s := openTestStore(t)
	resources, usages, err := IndexResources(s.DB(), root)
	if err != nil {
		t.Fatal(err)
	}
	if resources < 4 {
		t.Errorf("expected at least 4 resources (string, color, drawable, layout), got %d", resources)
	}
	if usages < 2 {
		t.Errorf("expected at least 2 resource usages, got %d", usages)
	}

	var usageType string
	row := s.DB().QueryRow(`
		SELECT ru.usage_type FROM resource_usages ru
		JOIN resources r ON ru.resource_id = r.id
		WHERE r.name = 'app_name' AND r.type = 'string'
	`)
	if err := row.Scan(&usageType); err != nil {
		t.Fatalf("expected usage recorded for app_name: %v", err)
	}
	if usageType != "code" {
		t.Errorf("expected code usage type, got %q", usageType)
	}
}
