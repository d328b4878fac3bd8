package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tallybook/tally/internal/export"
	"github.com/tallybook/tally/internal/store"
	"github.com/tallybook/tally/pkg/gradebook"
	"github.com/tallybook/tally/pkg/scoring"
	"github.com/tallybook/tally/pkg/surface"
)

// bookSession is a grade book loaded from storage for one command.
type bookSession struct {
	g    *globalOpts
	docs store.StorageClient
	id   string
	book *gradebook.Book
}

func openBook(ctx context.Context, g *globalOpts, id string) (*bookSession, error) {
	if err := store.CheckKey(id); err != nil {
		return nil, fmt.Errorf("book: %w", err)
	}
	docs, err := g.store(ctx, g.config())
	if err != nil {
		return nil, err
	}
	book := gradebook.NewBook()
	if _, err := store.Load(ctx, docs, g.namespace, store.KindGradebook, id, book); err != nil {
		return nil, fmt.Errorf("loading grade book %s: %w", id, err)
	}
	return &bookSession{g: g, docs: docs, id: id, book: book}, nil
}

func (s *bookSession) save(ctx context.Context) error {
	if err := store.Save(ctx, s.docs, s.g.namespace, store.KindGradebook, s.id, s.book); err != nil {
		return fmt.Errorf("saving grade book %s: %w", s.id, err)
	}
	return nil
}

func newGradebookCmd(g *globalOpts) *cobra.Command {
	var bookID string

	cmd := &cobra.Command{
		Use:     "gradebook",
		Aliases: []string{"gb"},
		Short:   "Manage students, electives and bimonthly grades",
	}
	cmd.PersistentFlags().StringVar(&bookID, "book", "default", "Grade book name")

	// edit loads the book, applies fn and saves it back.
	edit := func(cmd *cobra.Command, fn func(b *gradebook.Book) error) error {
		s, err := openBook(cmd.Context(), g, bookID)
		if err != nil {
			return err
		}
		if err := fn(s.book); err != nil {
			return err
		}
		return s.save(cmd.Context())
	}
	view := func(cmd *cobra.Command) (*gradebook.Book, error) {
		s, err := openBook(cmd.Context(), g, bookID)
		if err != nil {
			return nil, err
		}
		return s.book, nil
	}

	cmd.AddCommand(
		newStudentCmd(false, edit),
		newStudentCmd(true, edit),
		&cobra.Command{
			Use:   "remove NAME",
			Short: "Remove a student",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return edit(cmd, func(b *gradebook.Book) error { return b.RemoveStudent(args[0]) })
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List students",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				b, err := view(cmd)
				if err != nil {
					return err
				}
				return printStudents(cmd.OutOrStdout(), b)
			},
		},
		&cobra.Command{
			Use:   "classes",
			Short: "List class years and their subjects",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				for _, c := range gradebook.DefaultClassYears() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", c.Name, strings.Join(c.Subjects, ", "))
				}
				return nil
			},
		},
		newElectiveCmd(edit),
		newGradeCmd(edit),
		newReportCmd(view),
		newGradebookExportCmd(view),
	)
	return cmd
}

type editFunc func(cmd *cobra.Command, fn func(b *gradebook.Book) error) error

type viewFunc func(cmd *cobra.Command) (*gradebook.Book, error)

func newStudentCmd(update bool, edit editFunc) *cobra.Command {
	var ns gradebook.NewStudent

	use, short := "add NAME", "Add a student"
	if update {
		use, short = "update NAME", "Update a student's details; flags left out keep their value"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns.ShortName = args[0]
			return edit(cmd, func(b *gradebook.Book) error {
				var (
					st  gradebook.Student
					err error
				)
				if update {
					st, err = b.Student(args[0])
					if err != nil {
						return err
					}
					st, err = b.UpdateStudent(mergeStudent(cmd, st, ns))
				} else {
					st, err = b.AddStudent(ns)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s), %s\n", st.ShortName, st.FullName, st.ClassYear)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&ns.FullName, "full-name", "", "Full name")
	cmd.Flags().StringVar(&ns.Parents, "parents", "", "Parents' names")
	cmd.Flags().IntVar(&ns.Age, "age", 0, "Age in years")
	cmd.Flags().StringVar(&ns.Birthday, "birthday", "", "Birthday as DD/MM/YYYY")
	cmd.Flags().StringVar(&ns.ClassYear, "class", "1º ano", "Class year, e.g. \"5º ano\"")
	return cmd
}

// mergeStudent overlays the flags set on cmd onto the current student.
func mergeStudent(cmd *cobra.Command, cur gradebook.Student, ns gradebook.NewStudent) gradebook.NewStudent {
	out := gradebook.NewStudent{
		ShortName: cur.ShortName,
		FullName:  cur.FullName,
		Parents:   cur.Parents,
		Age:       cur.Age,
		Birthday:  cur.Birthday,
		ClassYear: cur.ClassYear,
	}
	f := cmd.Flags()
	if f.Changed("full-name") {
		out.FullName = ns.FullName
	}
	if f.Changed("parents") {
		out.Parents = ns.Parents
	}
	if f.Changed("age") {
		out.Age = ns.Age
	}
	if f.Changed("birthday") {
		out.Birthday = ns.Birthday
	}
	if f.Changed("class") {
		out.ClassYear = ns.ClassYear
	}
	return out
}

func newElectiveCmd(edit editFunc) *cobra.Command {
	var remove bool
	cmd := &cobra.Command{
		Use:   "elective NAME SUBJECT",
		Short: "Add an elective subject to a student (or remove it with --remove)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return edit(cmd, func(b *gradebook.Book) error {
				if remove {
					return b.RemoveElective(args[0], args[1])
				}
				return b.AddElective(args[0], args[1])
			})
		},
	}
	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the elective instead")
	return cmd
}

func newGradeCmd(edit editFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "grade NAME SUBJECT TERM VALUE",
		Short: "Set a bimonthly grade (0 to 10); VALUE \"-\" clears it",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			term, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("term must be 1 to %d: %w", gradebook.TermsPerYear, gradebook.ErrInvalidTerm)
			}
			var grade *float64
			if args[3] != "-" {
				v, err := scoring.ParseDecimal(args[3])
				if err != nil {
					return fmt.Errorf("grade: %w", err)
				}
				grade = &v
			}
			return edit(cmd, func(b *gradebook.Book) error {
				return b.SetGrade(args[0], args[1], term, grade)
			})
		},
	}
}

func newReportCmd(view viewFunc) *cobra.Command {
	var (
		outputFmt string
		pdfPath   string
	)
	cmd := &cobra.Command{
		Use:   "report NAME",
		Short: "Print a student's report card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := view(cmd)
			if err != nil {
				return err
			}
			report, err := b.Report(args[0])
			if err != nil {
				return err
			}

			var r surface.ReportCardRenderer = &surface.TerminalRenderer{}
			if outputFmt == surface.FormatJSON {
				r = &surface.JSONRenderer{}
			}
			if err := r.RenderReportCard(cmd.OutOrStdout(), report); err != nil {
				return fmt.Errorf("rendering: %w", err)
			}

			if pdfPath != "" {
				if err := writeFile(pdfPath, func(w io.Writer) error { return export.ReportCardPDF(w, report) }); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "Report card written: %s\n", pdfPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Also write the report card as PDF to this path")
	return cmd
}

func newGradebookExportCmd(view viewFunc) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all grades to an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := view(cmd)
			if err != nil {
				return err
			}
			var reports []gradebook.Report
			for _, st := range b.Students() {
				rep, err := b.Report(st.ShortName)
				if err != nil {
					return err
				}
				reports = append(reports, rep)
			}
			if err := writeFile(outPath, func(w io.Writer) error { return export.WriteGradebook(w, reports) }); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Grades exported: %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "gradebook.xlsx", "Output path")
	return cmd
}

func printStudents(w io.Writer, b *gradebook.Book) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFULL NAME\tCLASS\tAGE\tSTATUS")
	for _, st := range b.Students() {
		status, _, err := b.Status(st.ShortName)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", st.ShortName, st.FullName, st.ClassYear, st.Age, status)
	}
	return tw.Flush()
}
