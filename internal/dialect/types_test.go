package dialect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dw-bridge/internal/dialect"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, dialect.ClassNumeric, dialect.Classify("NUMBER(10,2)"))
	assert.Equal(t, dialect.ClassNumeric, dialect.Classify("decimal"))
	assert.Equal(t, dialect.ClassString, dialect.Classify("VARCHAR2(200)"))
	assert.Equal(t, dialect.ClassTemporal, dialect.Classify("TIMESTAMP_NTZ"))
	assert.Equal(t, dialect.ClassBinary, dialect.Classify("VARBINARY(16)"))

	// LOB types stay unclassified so conversions out of them are explicit.
	assert.Equal(t, dialect.ClassOther, dialect.Classify("CLOB"))
	assert.Equal(t, dialect.ClassOther, dialect.Classify("BLOB"))
}

func TestCompatible(t *testing.T) {
	assert.True(t, dialect.Compatible("NUMBER(10)", "DECIMAL(10,0)"))
	assert.True(t, dialect.Compatible("VARCHAR2(50)", "VARCHAR(50)"))
	assert.True(t, dialect.Compatible("DATE", "TIMESTAMP_NTZ"))

	assert.False(t, dialect.Compatible("CLOB", "VARCHAR(4000)"))
	assert.False(t, dialect.Compatible("NUMBER", "VARCHAR"))

	// Unclassified types are compatible only with themselves.
	assert.True(t, dialect.Compatible("CLOB", "clob"))
}

func TestTargetType(t *testing.T) {
	assert.Equal(t, "TIMESTAMP_TZ", dialect.TargetType("TIMESTAMP WITH TIME ZONE"))
	assert.Equal(t, "TIMESTAMP_NTZ", dialect.TargetType("TIMESTAMP(6)"))
	assert.Equal(t, "VARCHAR", dialect.TargetType("VARCHAR2"))
	assert.Equal(t, "DECIMAL", dialect.TargetType("NUMBER"))
	assert.Equal(t, "VARCHAR", dialect.TargetType("CLOB"))
	assert.Equal(t, "BINARY", dialect.TargetType("LONG RAW"))
	assert.Equal(t, "VARCHAR", dialect.TargetType("LONG"))
	assert.Equal(t, "GEOMETRY", dialect.TargetType("geometry"))
}

func TestGet(t *testing.T) {
	assert.Equal(t, "oracle", dialect.Get("oracle").Name())
	assert.Equal(t, "sqlserver", dialect.Get("mssql").Name())
	assert.Equal(t, "snowflake", dialect.Get("snowflake").Name())
	assert.Equal(t, "oracle", dialect.Get("unknown").Name())
}
