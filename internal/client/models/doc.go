// Package models defines the data exchanged with the knowledge-base platform API.
//
// The backend is not consistent about identifier and key spelling (numeric vs
// string ids, "id" vs "_id", snake_case vs camelCase token fields), so several
// types decode more than one form.
package models
