package main

import (
	"context"

	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/grade"
	"github.com/trezcool/daftari/core/paper"
	"github.com/trezcool/daftari/core/student"
	"github.com/trezcool/daftari/core/subject"
)

// seed loads a small demo dataset. It goes through the services so the usual
// validation and uniqueness rules apply; re-running it on a seeded database
// fails on the first duplicate.
func (cli *commandLine) seed() error {
	ctx := context.Background()

	newSubjects := []subject.NewSubject{
		{Name: "Mathematics", Code: "MATH101", Description: "Algebra and geometry fundamentals"},
		{Name: "Physics", Code: "PHYS101", Description: "Mechanics and thermodynamics"},
		{Name: "English", Code: "ENG101"},
	}
	subjects := make([]subject.Subject, 0, len(newSubjects))
	for _, ns := range newSubjects {
		if err := ns.Validate(ctx, cli.subjectSvc); err != nil {
			return err
		}
		sub, err := cli.subjectSvc.Create(ctx, ns)
		if err != nil {
			return err
		}
		subjects = append(subjects, sub)
	}

	dob, err := core.ParseDate("2005-03-14")
	if err != nil {
		return err
	}
	newStudents := []student.NewStudent{
		{StudentID: "STU001", FirstName: "Amina", LastName: "Kabongo", Email: "amina.kabongo@example.com", DateOfBirth: &dob},
		{StudentID: "STU002", FirstName: "Jean", LastName: "Mwamba", Email: "jean.mwamba@example.com"},
		{StudentID: "STU003", FirstName: "Grace", LastName: "Ilunga", Email: "grace.ilunga@example.com"},
	}
	students := make([]student.Student, 0, len(newStudents))
	for _, ns := range newStudents {
		if err := ns.Validate(ctx, cli.studentSvc); err != nil {
			return err
		}
		std, err := cli.studentSvc.Create(ctx, ns)
		if err != nil {
			return err
		}
		students = append(students, std)
	}

	totalScore := core.MustDecimal("100")
	newPapers := []paper.NewPaper{
		{Name: "Midterm Exam", PaperType: paper.TypeExam, SubjectID: subjects[0].ID, TotalScore: &totalScore},
		{Name: "Chapter 1 Quiz", PaperType: paper.TypeQuiz, SubjectID: subjects[0].ID, TotalScore: &totalScore},
		{Name: "Lab Report", PaperType: paper.TypeActivity, SubjectID: subjects[1].ID, TotalScore: &totalScore},
	}
	papers := make([]paper.Paper, 0, len(newPapers))
	for _, np := range newPapers {
		if err := np.Validate(ctx, cli.paperSvc); err != nil {
			return err
		}
		ppr, err := cli.paperSvc.Create(ctx, np)
		if err != nil {
			return err
		}
		papers = append(papers, ppr)
	}

	score := core.MustDecimal("88.50")
	newGrades := []grade.NewGrade{
		{StudentID: students[0].ID, PaperID: papers[0].ID, Score: &score, Notes: "Good work"},
		{StudentID: students[1].ID, PaperID: papers[0].ID, Score: &score},
		{StudentID: students[0].ID, PaperID: papers[1].ID, Score: &score},
	}
	for _, ng := range newGrades {
		if err := ng.Validate(ctx, cli.gradeSvc); err != nil {
			return err
		}
		if _, err := cli.gradeSvc.Create(ctx, ng); err != nil {
			return err
		}
	}

	logger.Printf("seeded %d subjects, %d students, %d papers, %d grades\n",
		len(subjects), len(students), len(papers), len(newGrades))
	return nil
}
