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
	"github.com/trezcool/daftari/core/grade"
	"github.com/trezcool/daftari/core/paper"
	"github.com/trezcool/daftari/core/student"
)

func Test_gradeApi_create(t *testing.T) {
	env := setup(t)

	amina := createStudent(t, env.studentSvc, "STU001", "Amina", "Kabongo", "amina@test.cd")
	math := createSubject(t, env.subjectSvc, "Mathematics", "MATH101")
	exam := createPaper(t, env.paperSvc, "Midterm Exam", "exam", math.ID, "100")
	quiz := createPaper(t, env.paperSvc, "Chapter 1 Quiz", "quiz", math.ID, "20")
	createGrade(t, env.gradeSvc, amina.ID, quiz.ID, "18.00", "")

	tests := []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: "/api/grades", body: []byte("{}"),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"student_id": "this field is required",
				"paper_id":   "this field is required",
				"score":      "this field is required",
			}),
		},
		{
			name: "unknown refs", method: http.MethodPost, path: "/api/grades",
			body:     marchallObj(t, echo.Map{"student_id": "lol", "paper_id": "lmao", "score": 10}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"student_id": student.ErrNotFound.Error(),
				"paper_id":   paper.ErrNotFound.Error(),
			}),
		},
		{
			name: "negative score", method: http.MethodPost, path: "/api/grades",
			body:     marchallObj(t, echo.Map{"student_id": amina.ID, "paper_id": exam.ID, "score": -1}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"score": "must be greater than or equal to 0"}),
		},
		{
			name: "score does not fit numeric(5,2)", method: http.MethodPost, path: "/api/grades",
			body:     marchallObj(t, echo.Map{"student_id": amina.ID, "paper_id": exam.ID, "score": "88.505"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"score": "no more than 5 digits in total and 2 decimal places allowed"}),
		},
		{
			name: "one grade per student per paper", method: http.MethodPost, path: "/api/grades",
			body:     marchallObj(t, echo.Map{"student_id": amina.ID, "paper_id": quiz.ID, "score": 15}),
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, map[string]string{
				"student_id": grade.ErrGradeExists.Error(),
				"paper_id":   grade.ErrGradeExists.Error(),
			}),
		},
	}
	for _, tt := range tests {
		tt.run(t, env.app)
	}

	t.Run("ok, student and paper embedded", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/grades", marchallObj(t, echo.Map{
			"student_id": amina.ID, "paper_id": exam.ID, "score": "88.5", "notes": "Good work",
		}))
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotEmpty(t, body["id"])
		assert.Equal(t, "88.50", body["score"]) // fixed 2-decimal string
		assert.Equal(t, "Good work", body["notes"])
		assert.Equal(t, core.Today().String(), body["date_recorded"])

		std, ok := body["student"].(map[string]interface{})
		require.True(t, ok, "student must be embedded")
		assert.Equal(t, amina.ID, std["id"])
		assert.Equal(t, "Amina Kabongo", std["full_name"])

		ppr, ok := body["paper"].(map[string]interface{})
		require.True(t, ok, "paper must be embedded")
		assert.Equal(t, exam.ID, ppr["id"])
		sub, ok := ppr["subject"].(map[string]interface{})
		require.True(t, ok, "paper's subject must be embedded")
		assert.Equal(t, math.ID, sub["id"])
	})

	t.Run("score above the paper's total is allowed", func(t *testing.T) {
		jean := createStudent(t, env.studentSvc, "STU002", "Jean", "Mwamba", "jean@test.cd")
		req, rec := newRequest(http.MethodPost, "/api/grades", marchallObj(t, echo.Map{
			"student_id": jean.ID, "paper_id": quiz.ID, "score": 25, // total is 20; bonus points
		}))
		env.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})
}

func Test_gradeApi_query(t *testing.T) {
	env := setup(t)

	amina := createStudent(t, env.studentSvc, "STU001", "Amina", "Kabongo", "amina@test.cd")
	jean := createStudent(t, env.studentSvc, "STU002", "Jean", "Mwamba", "jean@test.cd")
	math := createSubject(t, env.subjectSvc, "Mathematics", "MATH101")
	phys := createSubject(t, env.subjectSvc, "Physics", "PHYS101")
	exam := createPaper(t, env.paperSvc, "Midterm Exam", "exam", math.ID, "100")
	lab := createPaper(t, env.paperSvc, "Lab Report", "activity", phys.ID, "20")

	aminaExam := createGrade(t, env.gradeSvc, amina.ID, exam.ID, "88.50", "")
	aminaLab := createGrade(t, env.gradeSvc, amina.ID, lab.ID, "15.00", "")
	jeanExam := createGrade(t, env.gradeSvc, jean.ID, exam.ID, "72.25", "")

	path := func(params map[string]string) string {
		v := make(url.Values)
		for key, val := range params {
			v.Add(key, val)
		}
		return "/api/grades?" + v.Encode()
	}

	tests := []httpTest{
		{
			name: "get all, default order", path: "/api/grades", wantCode: http.StatusOK,
			// student name, then subject name
			wantData: marchallList(t, aminaExam, aminaLab, jeanExam),
		},
		{
			name: "filter by student", path: path(map[string]string{"student_id": jean.ID}),
			wantCode: http.StatusOK, wantData: marchallList(t, jeanExam),
		},
		{
			name: "filter by paper", path: path(map[string]string{"paper_id": lab.ID}),
			wantCode: http.StatusOK, wantData: marchallList(t, aminaLab),
		},
		{
			name: "filter by subject", path: path(map[string]string{"subject_id": math.ID}),
			wantCode: http.StatusOK, wantData: marchallList(t, aminaExam, jeanExam),
		},
		{
			name: "filter by grade_type", path: path(map[string]string{"grade_type": "activity"}),
			wantCode: http.StatusOK, wantData: marchallList(t, aminaLab),
		},
		{
			name: "filter by paper_type", path: path(map[string]string{"paper_type": "exam"}),
			wantCode: http.StatusOK, wantData: marchallList(t, aminaExam, jeanExam),
		},
		{
			name: "grade_type wins over paper_type", path: path(map[string]string{"grade_type": "activity", "paper_type": "exam"}),
			wantCode: http.StatusOK, wantData: marchallList(t, aminaLab),
		},
		{
			name: "student and subject combo (empty)", path: path(map[string]string{"student_id": jean.ID, "subject_id": phys.ID}),
			wantCode: http.StatusOK, wantData: marchallList(t),
		},
		{
			name: "order by -score", path: path(map[string]string{"ordering": "-score"}),
			wantCode: http.StatusOK, wantData: marchallList(t, aminaExam, jeanExam, aminaLab),
		},
	}
	for _, tt := range tests {
		tt.run(t, env.app)
	}
}

func Test_gradeApi_retrieveUpdateDestroy(t *testing.T) {
	env := setup(t)

	amina := createStudent(t, env.studentSvc, "STU001", "Amina", "Kabongo", "amina@test.cd")
	jean := createStudent(t, env.studentSvc, "STU002", "Jean", "Mwamba", "jean@test.cd")
	math := createSubject(t, env.subjectSvc, "Mathematics", "MATH101")
	exam := createPaper(t, env.paperSvc, "Midterm Exam", "exam", math.ID, "100")
	grd := createGrade(t, env.gradeSvc, amina.ID, exam.ID, "88.50", "Good work")
	jeanGrd := createGrade(t, env.gradeSvc, jean.ID, exam.ID, "72.25", "")

	tests := []httpTest{
		{
			name: "retrieve found", path: "/api/grades/" + grd.ID, wantCode: http.StatusOK,
			wantData: marchallObj(t, grd),
		},
		{
			name: "retrieve not found", path: "/api/grades/lol", wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: grade.ErrNotFound.Error()}),
		},
		{
			name: "re-assigning to a graded paper conflicts", method: http.MethodPut, path: "/api/grades/" + jeanGrd.ID,
			body:     marchallObj(t, echo.Map{"student_id": amina.ID}),
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, map[string]string{
				"student_id": grade.ErrGradeExists.Error(),
				"paper_id":   grade.ErrGradeExists.Error(),
			}),
		},
	}
	for _, tt := range tests {
		tt.run(t, env.app)
	}

	t.Run("partial update keeps absent fields", func(t *testing.T) {
		req, rec := newRequest(http.MethodPatch, "/api/grades/"+grd.ID,
			marchallObj(t, echo.Map{"score": "90.25"}))
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "90.25", body["score"])
		assert.Equal(t, "Good work", body["notes"]) // kept
		assert.Equal(t, grd.DateRecorded.String(), body["date_recorded"])
	})

	t.Run("notes can be cleared", func(t *testing.T) {
		req, rec := newRequest(http.MethodPatch, "/api/grades/"+grd.ID,
			marchallObj(t, echo.Map{"notes": ""}))
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "", body["notes"])
	})

	t.Run("destroy", func(t *testing.T) {
		req, rec := newRequest(http.MethodDelete, "/api/grades/"+grd.ID)
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)

		req, rec = newRequest(http.MethodGet, "/api/grades/"+grd.ID)
		env.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
