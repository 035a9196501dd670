package employee

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/hpungsan/roster/internal/errors"
)

// dataFile is the wrapped form of a record file: {"employees": [...]}.
type dataFile struct {
	Employees []Employee `json:"employees" yaml:"employees"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their serialized name so messages match the data file.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// LoadFile reads and validates employee records from a .json, .yaml, or .yml file.
// The file holds either a bare list of records or an object with an "employees" list.
func LoadFile(path string) ([]Employee, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("read data file: %w", err))
	}

	var records []Employee
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		records, err = decodeJSON(data)
	case ".yaml", ".yml":
		records, err = decodeYAML(data)
	default:
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unsupported data file extension %q (want .json, .yaml, or .yml)", ext))
	}
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("parse %s: %v", filepath.Base(path), err))
	}

	if err := Validate(records); err != nil {
		return nil, err
	}
	return records, nil
}

func decodeJSON(data []byte) ([]Employee, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []Employee
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var f dataFile
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return nil, err
	}
	return f.Employees, nil
}

func decodeYAML(data []byte) ([]Employee, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.SequenceNode {
		var records []Employee
		if err := root.Decode(&records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var f dataFile
	if err := root.Decode(&f); err != nil {
		return nil, err
	}
	return f.Employees, nil
}

// Validate checks every record's fields. The first failing record is reported
// as an INVALID_RECORD error carrying its index.
func Validate(records []Employee) error {
	for i, rec := range records {
		if err := validate.Struct(rec); err != nil {
			return errors.NewInvalidRecord(i, describe(err))
		}
		if rec.StartDate.IsZero() {
			return errors.NewInvalidRecord(i, "start_date is required")
		}
	}
	return nil
}

// describe turns a validator error into a short human-readable reason.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s %q is not a valid email address", fe.Field(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag())
	}
}
