package schemas

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/jonathan/movie-insight/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	schemaFiles := []string{
		"vectorizer.schema.json",
		"classifier.schema.json",
		"accuracy.schema.json",
	}

	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(schemaFile)
			require.NoError(t, err, "should be able to read schema file")

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON: %s", schemaFile)

			assert.Contains(t, schemaObj, "$schema")
			assert.Contains(t, schemaObj, "required")
			assert.Equal(t, "object", schemaObj["type"])
		})
	}
}

func TestEmbeddedSchemas_MatchFiles(t *testing.T) {
	embedded := map[string]string{
		"vectorizer.schema.json": Vectorizer,
		"classifier.schema.json": Classifier,
		"accuracy.schema.json":   Accuracy,
	}

	for file, content := range embedded {
		data, err := os.ReadFile(file)
		require.NoError(t, err)
		assert.Equal(t, string(data), content, file)
	}
}

func TestVectorizerSchema(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"valid", `{"kind":"tfidf_vectorizer","vocabulary":{"dream":0,"thief":1},"idf":[1.2,1.0],"max_features":5000,"stop_words":true}`, false},
		{"empty vocabulary", `{"kind":"tfidf_vectorizer","vocabulary":{},"idf":[1.0],"max_features":0,"stop_words":false}`, true},
		{"negative dimension", `{"kind":"tfidf_vectorizer","vocabulary":{"a":-1},"idf":[1.0],"max_features":0,"stop_words":false}`, true},
		{"idf below one", `{"kind":"tfidf_vectorizer","vocabulary":{"a":0},"idf":[0.5],"max_features":0,"stop_words":false}`, true},
		{"wrong kind", `{"kind":"logistic_regression","vocabulary":{"a":0},"idf":[1.0],"max_features":0,"stop_words":false}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schemas.ValidateBytes(Vectorizer, []byte(tt.doc))
			if tt.wantErr {
				require.Error(t, err)
				_, ok := err.(*schemas.ValidationError)
				assert.True(t, ok, "expected ValidationError, got %T", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClassifierSchema(t *testing.T) {
	assert.NoError(t, schemas.ValidateBytes(Classifier, []byte(`{"kind":"logistic_regression","weights":[0.5,-0.25],"bias":0.1,"class_balanced":true,"iterations":12,"converged":true}`)))
	assert.Error(t, schemas.ValidateBytes(Classifier, []byte(`{"kind":"logistic_regression","weights":[],"bias":0}`)))
	assert.Error(t, schemas.ValidateBytes(Classifier, []byte(`{"kind":"logistic_regression","weights":[1]}`)))
}

func TestAccuracySchema(t *testing.T) {
	assert.NoError(t, schemas.ValidateBytes(Accuracy, []byte(`{"kind":"model_accuracy","accuracy":0.7843,"test_rows":400}`)))
	assert.Error(t, schemas.ValidateBytes(Accuracy, []byte(`{"kind":"model_accuracy","accuracy":1.5}`)))
	assert.Error(t, schemas.ValidateBytes(Accuracy, []byte(`{"kind":"model_accuracy"}`)))
}
