package echoapi

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/paper"
	"github.com/trezcool/daftari/core/subject"
)

func Test_paperApi_create(t *testing.T) {
	env := setup(t)
	math := createSubject(t, env.subjectSvc, "Mathematics", "MATH101")
	createPaper(t, env.paperSvc, "Midterm Exam", "exam", math.ID, "100")

	tests := []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: "/api/papers", body: []byte("{}"),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"name":        "this field is required",
				"paper_type":  "this field is required",
				"subject_id":  "this field is required",
				"total_score": "this field is required",
			}),
		},
		{
			name: "invalid paper_type", method: http.MethodPost, path: "/api/papers",
			body: marchallObj(t, echo.Map{
				"name": "Pop Quiz", "paper_type": "homework", "subject_id": math.ID, "total_score": 10,
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"paper_type": "paper type must be one of: activity, quiz, exam"}),
		},
		{
			name: "unknown subject", method: http.MethodPost, path: "/api/papers",
			body: marchallObj(t, echo.Map{
				"name": "Pop Quiz", "paper_type": "quiz", "subject_id": "lol", "total_score": 10,
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"subject_id": subject.ErrNotFound.Error()}),
		},
		{
			name: "negative total_score", method: http.MethodPost, path: "/api/papers",
			body: marchallObj(t, echo.Map{
				"name": "Pop Quiz", "paper_type": "quiz", "subject_id": math.ID, "total_score": -10,
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"total_score": "must be greater than or equal to 0"}),
		},
		{
			name: "total_score does not fit numeric(5,2)", method: http.MethodPost, path: "/api/papers",
			body: marchallObj(t, echo.Map{
				"name": "Pop Quiz", "paper_type": "quiz", "subject_id": math.ID, "total_score": "10.125",
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"total_score": "no more than 5 digits in total and 2 decimal places allowed"}),
		},
		{
			name: "duplicate (name, subject, type)", method: http.MethodPost, path: "/api/papers",
			body: marchallObj(t, echo.Map{
				"name": "Midterm Exam", "paper_type": "exam", "subject_id": math.ID, "total_score": 50,
			}),
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, map[string]string{"name": paper.ErrPaperExists.Error()}),
		},
	}
	for _, tt := range tests {
		tt.run(t, env.app)
	}

	t.Run("ok, subject embedded", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/papers", marchallObj(t, echo.Map{
			"name": "Chapter 1 Quiz", "paper_type": "quiz", "subject_id": math.ID, "total_score": "20.50",
		}))
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotEmpty(t, body["id"])
		assert.Equal(t, "20.50", body["total_score"]) // fixed 2-decimal string
		assert.Equal(t, core.Today().String(), body["date_assigned"])

		sub, ok := body["subject"].(map[string]interface{})
		require.True(t, ok, "subject must be embedded")
		assert.Equal(t, math.ID, sub["id"])
		assert.Equal(t, "Mathematics", sub["name"])
	})

	t.Run("same name and subject but different type is fine", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/papers", marchallObj(t, echo.Map{
			"name": "Midterm Exam", "paper_type": "activity", "subject_id": math.ID, "total_score": 50,
		}))
		env.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})
}

func Test_paperApi_query(t *testing.T) {
	env := setup(t)

	math := createSubject(t, env.subjectSvc, "Mathematics", "MATH101")
	phys := createSubject(t, env.subjectSvc, "Physics", "PHYS101")
	mathExam := createPaper(t, env.paperSvc, "Midterm Exam", "exam", math.ID, "100")
	mathQuiz := createPaper(t, env.paperSvc, "Chapter 1 Quiz", "quiz", math.ID, "20")
	physLab := createPaper(t, env.paperSvc, "Lab Report", "activity", phys.ID, "20")

	path := func(search, subjectID, paperType, ordering string) string {
		v := make(url.Values)
		if search != "" {
			v.Add("search", search)
		}
		if subjectID != "" {
			v.Add("subject_id", subjectID)
		}
		if paperType != "" {
			v.Add("paper_type", paperType)
		}
		if ordering != "" {
			v.Add("ordering", ordering)
		}
		return "/api/papers?" + v.Encode()
	}

	tests := []httpTest{
		{
			name: "get all, default order", path: "/api/papers", wantCode: http.StatusOK,
			wantData: marchallList(t, mathExam, mathQuiz, physLab), // subject, type, name
		},
		{
			name: "filter by subject", path: path("", math.ID, "", ""), wantCode: http.StatusOK,
			wantData: marchallList(t, mathExam, mathQuiz),
		},
		{
			name: "filter by subject (no papers)", path: path("", "lol", "", ""), wantCode: http.StatusOK,
			wantData: marchallList(t),
		},
		{
			name: "filter by type", path: path("", "", "quiz", ""), wantCode: http.StatusOK,
			wantData: marchallList(t, mathQuiz),
		},
		{
			name: "filter by subject and type (empty)", path: path("", phys.ID, "exam", ""), wantCode: http.StatusOK,
			wantData: marchallList(t),
		},
		{
			name: "search matches subject code", path: path("PHYS", "", "", ""), wantCode: http.StatusOK,
			wantData: marchallList(t, physLab),
		},
		{
			name: "order by -name", path: path("", "", "", "-name"), wantCode: http.StatusOK,
			wantData: marchallList(t, mathExam, physLab, mathQuiz),
		},
	}
	for _, tt := range tests {
		tt.run(t, env.app)
	}
}

func Test_paperApi_queryTypes(t *testing.T) {
	env := setup(t)

	httpTest{
		name: "types", path: "/api/papers/types", wantCode: http.StatusOK,
		wantData: marchallObj(t, paper.Types),
	}.run(t, env.app)
}

func Test_paperApi_retrieveUpdateDestroy(t *testing.T) {
	env := setup(t)
	math := createSubject(t, env.subjectSvc, "Mathematics", "MATH101")
	phys := createSubject(t, env.subjectSvc, "Physics", "PHYS101")
	exam := createPaper(t, env.paperSvc, "Midterm Exam", "exam", math.ID, "100")

	tests := []httpTest{
		{
			name: "retrieve found", path: "/api/papers/" + exam.ID, wantCode: http.StatusOK,
			wantData: marchallObj(t, exam),
		},
		{
			name: "retrieve not found", path: "/api/papers/lol", wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: paper.ErrNotFound.Error()}),
		},
	}
	for _, tt := range tests {
		tt.run(t, env.app)
	}

	t.Run("re-parent to another subject", func(t *testing.T) {
		req, rec := newRequest(http.MethodPatch, "/api/papers/"+exam.ID,
			marchallObj(t, echo.Map{"subject_id": phys.ID}))
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var ppr paper.Paper
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ppr))
		assert.Equal(t, phys.ID, ppr.Subject.ID)
		assert.Equal(t, "Midterm Exam", ppr.Name) // kept
		assert.Equal(t, exam.DateAssigned.String(), ppr.DateAssigned.String())
	})

	t.Run("destroy", func(t *testing.T) {
		req, rec := newRequest(http.MethodDelete, "/api/papers/"+exam.ID)
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)

		req, rec = newRequest(http.MethodGet, "/api/papers/"+exam.ID)
		env.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
