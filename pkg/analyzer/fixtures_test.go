package analyzer

const cbcOptimalLog = `Welcome to the CBC MILP Solver
Version: 2.10.3
Build Date: Jan  1 2020

command line - cbc model.mps solve
Problem MODEL has 200 rows, 100 columns and 800 elements
Cgl0004I processed model has 180 rows, 95 columns (95 integer (90 of which binary)) and 750 elements
Cbc0010I After 0 nodes, 1 on tree, 1e+50 best solution, best possible 38000 (1.20 seconds)
Cbc0010I After 100 nodes, 40 on tree, 39000 best solution, best possible 38500 (50.00 seconds)
Cbc0010I After 200 nodes, 35 on tree, 38752 best solution, best possible 38700 (100.00 seconds)
Cbc0001I Search completed - best objective 38752, took 1000 iterations and 500 nodes (725.37 seconds)

Result - Optimal solution found

Objective value:                38752.00000000
Enumerated nodes:               378472
Total iterations:               1000
`

const cbcSentinelOnlyLog = `Welcome to the CBC MILP Solver
Version: 2.10.3
Cbc0010I After 0 nodes, 1 on tree, 1e+50 best solution, best possible 38000 (1.20 seconds)
Cbc0010I After 100 nodes, 40 on tree, 1e+50 best solution, best possible 38500 (50.00 seconds)

Result - Stopped on time limit

No feasible solution found
Enumerated nodes:               100
Total time (CPU seconds):       60.00   (Wallclock seconds):       60.10
`

const cplexOptimalLog = `Welcome to IBM(R) ILOG(R) CPLEX(R) Interactive Optimizer 12.6.0.0
  with Simplex, Mixed Integer & Barrier Optimizers
Tried aggregator 1 time.
LP Presolve eliminated 3 rows and 2 columns.
Reduced MIP has 100 rows, 50 columns, and 400 nonzeros.
Presolve time = 0.01 sec. (0.50 ticks)
Reduced MIP has 90 rows, 45 columns, and 380 nonzeros.
Root relaxation solution time = 0.02 sec. (1.20 ticks)

        Nodes                                         Cuts/
   Node  Left     Objective  IInf  Best Integer    Best Bound    ItCnt     Gap

      0     0      104.0000    20                    104.0000       45
*     0+    0                          100.0000      104.0000       45    4.00%
      0     0      103.5000    18      100.0000      Cuts: 12       60    3.50%
      0     2      103.5000    18      100.0000      103.5000       60    3.50%
Elapsed time = 0.50 sec. (10.00 ticks, tree = 0.01 MB, solutions = 1)
     10     5      102.0000     4      100.0000      103.0000      200    3.00%
*    20     0      integral     0      101.0000      101.0000      250    0.00%

Gomory fractional cuts applied:  5
Mixed integer rounding cuts applied:  7

Total (root+branch&cut) =    1.00 sec. (20.00 ticks)

MIP - Integer optimal solution:  Objective =  1.0100000000e+02
Solution time =    1.00 sec.  Iterations = 250  Nodes = 20
`

const gurobiInfeasibleLog = `Gurobi Optimizer version 9.1.2 build v9.1.2rc0 (linux64)
Optimize a model with 10 rows, 5 columns and 20 nonzeros
Presolve time: 0.00s

Explored 0 nodes (0 simplex iterations) in 0.01 seconds
Thread count was 1 (of 4 available processors)

Solution count 0

Model is infeasible
Best objective -, best bound -, gap -
`

const cpsatOptimalLog = `Starting CP-SAT solver v9.3.10497
Parameters: log_search_progress: true

Starting Search at 0.01s with 8 workers.
#Bound   0.02s best:inf   next:[0,100]    initial_domain
#1       0.03s best:50    next:[0,49]     fixed_bools:0/10
#2       0.05s best:30    next:[0,29]     quick_restart
#Bound   0.06s best:30    next:[15,29]    max_lp
#3       1.10s best:15    next:[15,14]    core
#Done    3.59s core

CpSolverResponse summary:
status: OPTIMAL
objective: 15
best_bound: 15
walltime: 3.6
usertime: 3.5908
`
