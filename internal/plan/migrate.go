package plan

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/renamecraft/renamecraft/internal/errs"
)

// sniffVersion reads only the "version" field of a plan document without a
// full strict unmarshal, so LoadJSON can decide whether the document needs
// upgrading before paying for a schema-matched decode.
func sniffVersion(data []byte) int {
	result := gjson.GetBytes(data, "version")
	if !result.Exists() {
		return 0
	}
	return int(result.Int())
}

// LoadJSON parses a plan document, upgrading it first if it was written by
// an older schema version.
func LoadJSON(data []byte) (*Plan, error) {
	version := sniffVersion(data)
	if version == 0 {
		return nil, errs.InvalidInput("plan document has no version field")
	}
	if version > PlanVersion {
		return nil, errs.InvalidInput("plan document version is newer than this build supports")
	}

	upgraded, err := upgrade(data, version)
	if err != nil {
		return nil, err
	}

	var p Plan
	if err := json.Unmarshal(upgraded, &p); err != nil {
		return nil, errs.InvalidInput("malformed plan document: " + err.Error())
	}
	return &p, nil
}

// upgrade applies in-place schema migrations for documents older than
// PlanVersion. There is only one schema version today, so this is a no-op;
// it exists so a future schema bump has a single place to add a migration
// step instead of branching version checks throughout the package.
func upgrade(data []byte, fromVersion int) ([]byte, error) {
	if fromVersion == PlanVersion {
		return data, nil
	}
	return data, nil
}
