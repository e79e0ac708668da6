package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7/pkg/policy"
	"github.com/minio/minio-go/v7/pkg/set"
)

// PolicyVersion is the IAM policy language version written into new documents.
const PolicyVersion = "2012-10-17"

const actionGetObject = "s3:GetObject"

// ObjectResource returns the ARN addressing a single object.
func ObjectResource(bucket, key string) string {
	return "arn:aws:s3:::" + bucket + "/" + key
}

// PublicReadStatement grants anonymous GetObject on exactly one object.
func PublicReadStatement(bucket, key string) policy.Statement {
	return policy.Statement{
		Actions:   set.CreateStringSet(actionGetObject),
		Effect:    "Allow",
		Principal: policy.User{AWS: set.CreateStringSet("*")},
		Resources: set.CreateStringSet(ObjectResource(bucket, key)),
	}
}

// PublicReadPolicy returns a policy document whose only grant is public read
// on bucket/key. Applying it drops every other statement of the bucket policy.
func PublicReadPolicy(bucket, key string) (string, error) {
	return encodePolicy(policy.BucketAccessPolicy{
		Version:    PolicyVersion,
		Statements: []policy.Statement{PublicReadStatement(bucket, key)},
	})
}

// MergePublicRead adds a public read grant on bucket/key to the existing
// policy document. An empty existing document starts a new one. Existing
// statements and top-level fields are kept as they are, including elements
// the typed policy model does not know (Id, NotAction, NotResource, NotPrincipal).
func MergePublicRead(existing, bucket, key string) (string, error) {
	doc := map[string]json.RawMessage{}
	if strings.TrimSpace(existing) != "" {
		if err := json.Unmarshal([]byte(existing), &doc); err != nil {
			return "", fmt.Errorf("failed to parse bucket policy: %w", err)
		}
		if doc == nil {
			doc = map[string]json.RawMessage{}
		}
	}

	statements, err := rawStatements(doc["Statement"])
	if err != nil {
		return "", err
	}

	resource := ObjectResource(bucket, key)
	for _, raw := range statements {
		var st policy.Statement
		// Statements the model cannot decode are kept but never count as the grant.
		if json.Unmarshal(raw, &st) == nil && grantsPublicRead(st, resource) {
			return encodeRaw(withVersion(doc))
		}
	}

	grant, err := json.Marshal(PublicReadStatement(bucket, key))
	if err != nil {
		return "", fmt.Errorf("failed to encode bucket policy: %w", err)
	}
	merged, err := json.Marshal(append(statements, grant))
	if err != nil {
		return "", fmt.Errorf("failed to encode bucket policy: %w", err)
	}
	doc["Statement"] = merged
	return encodeRaw(withVersion(doc))
}

// rawStatements splits a Statement element into its statements.
// IAM allows a single statement object in place of the array.
func rawStatements(raw json.RawMessage) ([]json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	if strings.HasPrefix(trimmed, "{") {
		return []json.RawMessage{raw}, nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to parse bucket policy statements: %w", err)
	}
	return list, nil
}

func withVersion(doc map[string]json.RawMessage) map[string]json.RawMessage {
	if _, ok := doc["Version"]; !ok {
		doc["Version"] = json.RawMessage(`"` + PolicyVersion + `"`)
	}
	return doc
}

func encodeRaw(doc map[string]json.RawMessage) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode bucket policy: %w", err)
	}
	return string(data), nil
}

// HasPublicRead reports whether doc already allows anonymous GetObject on bucket/key.
func HasPublicRead(doc policy.BucketAccessPolicy, bucket, key string) bool {
	resource := ObjectResource(bucket, key)
	for _, st := range doc.Statements {
		if grantsPublicRead(st, resource) {
			return true
		}
	}
	return false
}

func grantsPublicRead(st policy.Statement, resource string) bool {
	if st.Effect != "Allow" || len(st.Conditions) > 0 {
		return false
	}
	if !st.Principal.AWS.Contains("*") || !st.Actions.Contains(actionGetObject) {
		return false
	}
	return st.Resources.Contains(resource)
}

func encodePolicy(doc policy.BucketAccessPolicy) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode bucket policy: %w", err)
	}
	return string(data), nil
}
