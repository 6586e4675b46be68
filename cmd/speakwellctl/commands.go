package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/yungbote/speakwell-backend/internal/app"
	"github.com/yungbote/speakwell-backend/internal/data/fixtures"
	"github.com/yungbote/speakwell-backend/internal/platform/authtoken"
	"github.com/yungbote/speakwell-backend/internal/platform/dbctx"
	"github.com/yungbote/speakwell-backend/internal/services"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and ledger indexes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), true, func(a *app.App) error {
				fmt.Fprintf(cmd.OutOrStdout(), "migrated (%s)\n", a.Cfg.DB.Driver)
				return nil
			})
		},
	}
}

func newSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a curriculum YAML file: classrooms, templates and assignments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()
			curriculum, err := fixtures.LoadCurriculum(f)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), true, func(a *app.App) error {
				ctx := cmd.Context()
				var seeded *fixtures.Seeded
				if err := a.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
					var err error
					seeded, err = curriculum.Seed(ctx, tx)
					return err
				}); err != nil {
					return fmt.Errorf("seed: %w", err)
				}

				created := make([]*services.CreateAssignmentResult, 0, len(seeded.Assignments))
				for _, plan := range seeded.Assignments {
					res, err := a.Services.Assignments.CreateAssignment(ctx, services.CreateAssignmentInput{
						TeacherID:          seeded.TeacherID,
						ClassroomID:        plan.ClassroomID,
						TemplateContentIDs: plan.TemplateIDs,
						Title:              plan.Title,
					})
					if err != nil {
						return fmt.Errorf("assignment %q: %w", plan.Title, err)
					}
					created = append(created, res)
				}
				return printJSON(cmd, map[string]any{
					"teacher_id":  seeded.TeacherID,
					"classrooms":  seeded.Classrooms,
					"templates":   seeded.Templates,
					"assignments": created,
				})
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "curriculum YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newVerifyLedgerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify-ledger",
		Short: "Report dangling progress rows, orphan copies and template bindings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), false, func(a *app.App) error {
				report, err := a.Services.Ledger.VerifyIntegrity(cmd.Context())
				if err != nil {
					return err
				}
				if err := printJSON(cmd, report); err != nil {
					return err
				}
				if !report.OK() {
					return errors.New("ledger integrity violations found")
				}
				return nil
			})
		},
	}
}

func newTeardownCmd() *cobra.Command {
	var assignmentID, teacherID string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "teardown",
		Short: "Withdraw an assignment and delete its private copies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			aid, err := uuid.Parse(assignmentID)
			if err != nil {
				return fmt.Errorf("--assignment: %w", err)
			}
			tid, err := uuid.Parse(teacherID)
			if err != nil {
				return fmt.Errorf("--teacher: %w", err)
			}
			return withApp(cmd.Context(), false, func(a *app.App) error {
				if dryRun {
					// One read transaction so the plan reflects a single snapshot.
					var plan *services.TeardownPlan
					base := dbctx.Context{Ctx: cmd.Context()}
					if err := a.DB.WithContext(cmd.Context()).Transaction(func(tx *gorm.DB) error {
						var err error
						plan, err = a.Services.Assignments.PlanTeardown(base.WithTx(tx), aid)
						return err
					}); err != nil {
						return err
					}
					return printJSON(cmd, map[string]any{"would_delete": plan.Counts(), "retained": plan.Retained})
				}
				res, err := a.Services.Assignments.DeleteAssignment(cmd.Context(), tid, aid)
				if err != nil {
					return err
				}
				return printJSON(cmd, res)
			})
		},
	}
	cmd.Flags().StringVar(&assignmentID, "assignment", "", "assignment id")
	cmd.Flags().StringVar(&teacherID, "teacher", "", "owning teacher id")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the teardown plan without deleting")
	_ = cmd.MarkFlagRequired("assignment")
	_ = cmd.MarkFlagRequired("teacher")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var teacherID string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a teacher access token signed with JWT_SECRET_KEY (local development)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tid, err := uuid.Parse(teacherID)
			if err != nil {
				return fmt.Errorf("--teacher: %w", err)
			}
			cfg := app.LoadConfig(nil)
			if cfg.JWTSecretKey == "" {
				return errors.New("JWT_SECRET_KEY is not set")
			}
			tok, err := authtoken.Sign(cfg.JWTSecretKey, cfg.JWTIssuer, tid, authtoken.RoleTeacher, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&teacherID, "teacher", "", "teacher id")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("teacher")
	return cmd
}
