package generate

import (
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// procedureTemplate wraps one merge statement in the standard load-procedure
// shell: process-log bookkeeping, an exception handler, quality checks and an
// OBJECT_CONSTRUCT status return.
var procedureTemplate = template.Must(template.New("procedure").Funcs(sprig.TxtFuncMap()).Parse(`-- Generated load procedure
-- Source mapping: {{ .SourceMapping }}
-- Generated: {{ .GeneratedAt }}
-- Description: {{ .Description }}

CREATE OR REPLACE PROCEDURE {{ .Schema }}.{{ .ProcedureName }}(
    P_LOAD_DATE DATE DEFAULT CURRENT_DATE(),
    P_BATCH_ID VARCHAR DEFAULT 'BATCH_' || TO_CHAR(CURRENT_TIMESTAMP(), 'YYYYMMDDHH24MISS'),
    P_DEBUG_MODE BOOLEAN DEFAULT FALSE
)
RETURNS OBJECT
LANGUAGE SQL
EXECUTE AS CALLER
AS
$$
DECLARE
    V_START_TIME TIMESTAMP_NTZ := CURRENT_TIMESTAMP();
    V_END_TIME TIMESTAMP_NTZ;
    V_ROWS_INSERTED INTEGER := 0;
    V_ROWS_UPDATED INTEGER := 0;
    V_ROWS_DELETED INTEGER := 0;
    V_ERROR_MESSAGE VARCHAR;
    V_EXECUTION_STATUS VARCHAR := 'SUCCESS';
BEGIN

    IF P_DEBUG_MODE THEN
        SELECT SYSTEM$LOG_INFO('Starting procedure: {{ .ProcedureName }}') INTO V_ERROR_MESSAGE;
    END IF;

    INSERT INTO ETL_METADATA.PROCESS_LOG (
        PROCESS_NAME,
        EXECUTION_START_TIME,
        BATCH_ID,
        STATUS,
        SOURCE_SYSTEM,
        TARGET_SYSTEM,
        LOAD_DATE
    ) VALUES (
        '{{ .ProcedureName }}',
        V_START_TIME,
        P_BATCH_ID,
        'RUNNING',
        '{{ .SourceSystem }}',
        '{{ .TargetSystem }}',
        P_LOAD_DATE
    );

    BEGIN

{{ .MergeLogic | indent 8 }}

        GET DIAGNOSTICS V_ROWS_INSERTED = ROW_COUNT;

{{ .QualityChecks | indent 8 }}

    EXCEPTION
        WHEN OTHER THEN
            V_EXECUTION_STATUS := 'FAILED';
            V_ERROR_MESSAGE := SQLERRM();
            IF P_DEBUG_MODE THEN
                SELECT SYSTEM$LOG_ERROR('Error in {{ .ProcedureName }}: ' || V_ERROR_MESSAGE) INTO V_ERROR_MESSAGE;
            END IF;
    END;

    V_END_TIME := CURRENT_TIMESTAMP();

    UPDATE ETL_METADATA.PROCESS_LOG
    SET
        EXECUTION_END_TIME = V_END_TIME,
        STATUS = V_EXECUTION_STATUS,
        ROWS_PROCESSED = V_ROWS_INSERTED,
        ROWS_UPDATED = V_ROWS_UPDATED,
        ROWS_DELETED = V_ROWS_DELETED,
        ERROR_MESSAGE = V_ERROR_MESSAGE,
        EXECUTION_DURATION_SECONDS = DATEDIFF(SECOND, V_START_TIME, V_END_TIME)
    WHERE BATCH_ID = P_BATCH_ID
      AND PROCESS_NAME = '{{ .ProcedureName }}';

    RETURN OBJECT_CONSTRUCT(
        'STATUS', V_EXECUTION_STATUS,
        'ROWS_INSERTED', V_ROWS_INSERTED,
        'ROWS_UPDATED', V_ROWS_UPDATED,
        'ROWS_DELETED', V_ROWS_DELETED,
        'ERROR_MESSAGE', V_ERROR_MESSAGE,
        'EXECUTION_TIME_SECONDS', DATEDIFF(SECOND, V_START_TIME, V_END_TIME),
        'BATCH_ID', P_BATCH_ID
    );

END;
$$;
`))

var mergeTemplate = template.Must(template.New("merge").Funcs(sprig.TxtFuncMap()).Parse(`MERGE INTO {{ .TargetSchema }}.{{ .TargetTable }} TGT
USING (
    SELECT
{{ .SelectColumns | indent 12 }}
    FROM {{ .SourceSchema }}.{{ .SourceTable }} SRC
{{- if .JoinClauses }}
{{ .JoinClauses | indent 4 }}
{{- end }}
{{- if .WhereClause }}
    WHERE {{ .WhereClause }}
{{- end }}
{{- if .GroupBy }}
    GROUP BY {{ .GroupBy }}
{{- end }}
) SRC
ON TGT.{{ .MergeKey }} = SRC.{{ .MergeKey }}
WHEN MATCHED THEN
    UPDATE SET
{{ .UpdateColumns | indent 8 }}
WHEN NOT MATCHED THEN
    INSERT (
{{ .InsertColumns | indent 8 }}
    )
    VALUES (
{{ .InsertValues | indent 8 }}
    );`))

type procedureData struct {
	ProcedureName string
	Schema        string
	Description   string
	SourceMapping string
	GeneratedAt   string
	SourceSystem  string
	TargetSystem  string
	MergeLogic    string
	QualityChecks string
}

type mergeData struct {
	TargetSchema  string
	TargetTable   string
	SourceSchema  string
	SourceTable   string
	SelectColumns string
	JoinClauses   string
	WhereClause   string
	GroupBy       string
	MergeKey      string
	UpdateColumns string
	InsertColumns string
	InsertValues  string
}
